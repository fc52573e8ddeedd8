package blobs

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Key prefixes of the bucket layout
const (
	PrefixVideos          = "videos"
	PrefixThumbnails      = "thumbnails"
	PrefixChannelPictures = "channel_pictures"
	PrefixChannelBanners  = "channel_banners"
	PrefixProfilePictures = "profile_pictures"
)

// ObjectKey builds "<prefix>/<owner>/<unixMillis>-<filename>". The filename is
// reduced to its base name and spaces are replaced so the key is URL-safe.
func ObjectKey(prefix, owner, filename string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '?', '#', '%':
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf("%s/%s/%d-%s", prefix, owner, at.UnixMilli(), name)
}
