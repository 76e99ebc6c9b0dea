package project

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// ReportVersion is written into every build report.
const ReportVersion = "1"

// BuildReport is a human-readable record of one packing run, written next to
// the atlas.
type BuildReport struct {
	Version    string             `toml:"version"`
	CreatedAt  time.Time          `toml:"created_at"`
	Settings   model.PackSettings `toml:"settings"`
	Efficiency float64            `toml:"efficiency"`
	Pages      []PageReport       `toml:"pages"`
}

// PageReport summarizes one page of a build.
type PageReport struct {
	Name       string         `toml:"name"`
	Width      int            `toml:"width"`
	Height     int            `toml:"height"`
	Efficiency float64        `toml:"efficiency"`
	Sprites    []SpriteReport `toml:"sprites"`
}

// SpriteReport records where one sprite ended up.
type SpriteReport struct {
	Name   string `toml:"name"`
	Source string `toml:"source,omitempty"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	Width  int    `toml:"w"`
	Height int    `toml:"h"`
}

// NewBuildReport summarizes result. createdAt is truncated to seconds.
func NewBuildReport(result model.PackResult, createdAt time.Time) BuildReport {
	report := BuildReport{
		Version:    ReportVersion,
		CreatedAt:  createdAt.UTC().Truncate(time.Second),
		Settings:   result.Settings,
		Efficiency: result.TotalEfficiency(),
		Pages:      make([]PageReport, 0, len(result.Pages)),
	}
	for _, p := range result.Pages {
		pr := PageReport{
			Name:       p.Name,
			Width:      p.Width,
			Height:     p.Height,
			Efficiency: p.Efficiency(),
			Sprites:    make([]SpriteReport, 0, len(p.Placements)),
		}
		for _, pl := range p.Placements {
			pr.Sprites = append(pr.Sprites, SpriteReport{
				Name:   pl.Sprite.Name,
				Source: pl.Sprite.Source,
				X:      pl.Region.X,
				Y:      pl.Region.Y,
				Width:  pl.Region.Width,
				Height: pl.Region.Height,
			})
		}
		report.Pages = append(report.Pages, pr)
	}
	return report
}

// WriteBuildReport writes report to path as TOML.
func WriteBuildReport(path string, report BuildReport) error {
	return writeTOML(path, report)
}

// ReadBuildReport reads a report written by WriteBuildReport.
func ReadBuildReport(path string) (BuildReport, error) {
	var report BuildReport
	if _, err := toml.DecodeFile(path, &report); err != nil {
		return BuildReport{}, fmt.Errorf("failed to read build report: %w", err)
	}
	if report.Version == "" {
		return BuildReport{}, fmt.Errorf("invalid build report %s: missing version field", path)
	}
	return report, nil
}
