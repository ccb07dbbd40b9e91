package domain

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

// ValidateThumbnail checks that u holds a decodable image. The bytes consumed
// while sniffing the header are stitched back in front of u.Content.
func ValidateThumbnail(u *Upload) []string {
	if u == nil || u.Filename == "" {
		return []string{MsgNoFile}
	}
	if u.Size == 0 {
		return []string{MsgEmptyFile}
	}

	var head bytes.Buffer
	_, _, err := image.DecodeConfig(io.TeeReader(u.Content, &head))
	u.Content = io.MultiReader(&head, u.Content)
	if err != nil {
		return []string{MsgInvalidImage}
	}
	return nil
}
