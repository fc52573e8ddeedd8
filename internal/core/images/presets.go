package images

// FitMode defines how an image should be fitted to the target dimensions.
type FitMode string

const (
	// FitCover scales the image to cover the target dimensions, cropping if necessary.
	FitCover FitMode = "cover"
	// FitContain scales the image to fit within the target dimensions, preserving aspect ratio.
	FitContain FitMode = "contain"
)

// Preset defines how an uploaded image is normalised before it is stored.
type Preset struct {
	Name    string
	Width   int
	Height  int
	Fit     FitMode
	Quality int
}

// Validate checks that the preset has valid configuration values.
func (p Preset) Validate() error {
	if p.Name == "" || p.Width <= 0 {
		return ErrInvalidPreset
	}
	// Height can be 0 for FitContain (proportional scaling)
	if p.Fit == FitCover && p.Height <= 0 {
		return ErrInvalidPreset
	}
	if p.Quality < 1 || p.Quality > 100 {
		return ErrInvalidPreset
	}
	if p.Fit != FitCover && p.Fit != FitContain {
		return ErrInvalidPreset
	}
	return nil
}

var (
	// ProfilePicture is used for user and channel avatars
	ProfilePicture = Preset{Name: "profile_picture", Width: 800, Height: 800, Fit: FitCover, Quality: 85}

	// Banner is used for channel banners (16:9 safe area, never upscaled)
	Banner = Preset{Name: "banner", Width: 2560, Height: 1440, Fit: FitContain, Quality: 85}

	// Thumbnail is used for video thumbnails
	Thumbnail = Preset{Name: "thumbnail", Width: 1280, Height: 720, Fit: FitCover, Quality: 85}
)

var presets = map[string]Preset{
	ProfilePicture.Name: ProfilePicture,
	Banner.Name:         Banner,
	Thumbnail.Name:      Thumbnail,
}

// GetPreset returns the preset configuration for the given name.
func GetPreset(name string) (Preset, error) {
	preset, exists := presets[name]
	if !exists {
		return Preset{}, ErrInvalidPreset
	}
	return preset, nil
}
