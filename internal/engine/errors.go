package engine

import (
	"errors"
	"fmt"

	"github.com/piwi3910/AtlasPack/internal/model"
)

var (
	ErrInvalidSettings = errors.New("invalid pack settings")
	ErrInvalidSprite   = errors.New("invalid sprite size")
	ErrSpriteTooLarge  = errors.New("sprite does not fit on a page")
	ErrDuplicateName   = errors.New("duplicate sprite name")
)

// OversizeError reports a sprite whose padded size exceeds the page size.
type OversizeError struct {
	Sprite     string
	Padded     model.RectSize
	PageWidth  int
	PageHeight int
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("sprite %q is %dx%d with padding, page is %dx%d",
		e.Sprite, e.Padded.Width, e.Padded.Height, e.PageWidth, e.PageHeight)
}

func (e *OversizeError) Unwrap() error { return ErrSpriteTooLarge }

// InvalidSpriteError reports a sprite with a non-positive dimension.
type InvalidSpriteError struct {
	Sprite string
	Width  int
	Height int
}

func (e *InvalidSpriteError) Error() string {
	return fmt.Sprintf("sprite %q has size %dx%d, both dimensions must be positive",
		e.Sprite, e.Width, e.Height)
}

func (e *InvalidSpriteError) Unwrap() error { return ErrInvalidSprite }

// Validate checks the settings and every sprite before packing. All problems
// are reported together. An empty strategy means global-best.
func Validate(settings model.PackSettings, sprites []model.Sprite) error {
	if settings.PageWidth <= 0 || settings.PageHeight <= 0 {
		return fmt.Errorf("%w: page size %dx%d", ErrInvalidSettings, settings.PageWidth, settings.PageHeight)
	}
	if settings.Padding < 0 {
		return fmt.Errorf("%w: negative padding %d", ErrInvalidSettings, settings.Padding)
	}
	if settings.Strategy != "" {
		if _, err := model.ParseStrategy(string(settings.Strategy)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
	}

	var errs []error
	seen := make(map[string]bool, len(sprites))
	for _, sp := range sprites {
		if seen[sp.Name] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateName, sp.Name))
			continue
		}
		seen[sp.Name] = true

		if sp.Width <= 0 || sp.Height <= 0 {
			errs = append(errs, &InvalidSpriteError{Sprite: sp.Name, Width: sp.Width, Height: sp.Height})
			continue
		}
		padded := settings.PaddedSize(sp)
		if padded.Width > settings.PageWidth || padded.Height > settings.PageHeight {
			errs = append(errs, &OversizeError{
				Sprite:     sp.Name,
				Padded:     padded,
				PageWidth:  settings.PageWidth,
				PageHeight: settings.PageHeight,
			})
		}
	}
	return errors.Join(errs...)
}
