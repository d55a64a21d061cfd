package load

import (
	"context"

	"go.uber.org/zap"

	"article-etl/pkg/config"
	"article-etl/pkg/dataset"
)

// refMediaTypesTable is the static lookup table seeded into the relational
// sink.
const refMediaTypesTable = "ref_media_types"

// Seeder seeds static reference data into the relational sink.
type Seeder struct {
	cfg *config.Config
	log *zap.SugaredLogger
}

// NewSeeder builds the reference-seeding stage.
func NewSeeder(cfg *config.Config, log *zap.SugaredLogger) *Seeder {
	return &Seeder{cfg: cfg, log: log}
}

// Name implements pipeline.Stage.
func (s *Seeder) Name() string { return "seed" }

// Run replaces the reference media-type table. A missing DSN skips the step
// with a warning so the object-store pipeline stays usable without a
// database.
func (s *Seeder) Run(ctx context.Context) error {
	if s.cfg.PostgresDSN == "" {
		s.log.Warnw("postgres not configured, skipping reference seeding")
		return nil
	}

	client := NewPostgresClient(s.cfg.PostgresDSN)
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	table := MediaTypes()
	if err := client.InsertTable(ctx, table, refMediaTypesTable, Replace); err != nil {
		return err
	}

	s.log.Infow("reference data seeded", "table", refMediaTypesTable, "rows", table.Len())
	return nil
}

// MediaTypes returns the static media-type reference rows.
func MediaTypes() *dataset.Table {
	t := dataset.New("code", "description")
	for _, row := range []struct{ code, description string }{
		{"text", "Text content (articles, transcripts)"},
		{"image", "Image content (photos, logos)"},
		{"audio", "Audio content (podcasts, sound bites)"},
		{"video", "Video content (clips, interviews)"},
	} {
		t.Append(map[string]string{"code": row.code, "description": row.description})
	}
	return t
}
