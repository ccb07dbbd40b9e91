package domain

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateModelFile(t *testing.T) {
	tests := []struct {
		name     string
		upload   *Upload
		wantMsgs []string
	}{
		{"glb", &Upload{Filename: "rock.glb", Size: 51200}, nil},
		{"gltf upper case", &Upload{Filename: "scene.GLTF", Size: 1}, nil},
		{"obj", &Upload{Filename: "a.b.obj", Size: 1}, nil},
		{"fbx at limit", &Upload{Filename: "rig.fbx", Size: MaxModelFileBytes}, nil},
		{"one byte over limit", &Upload{Filename: "rig.fbx", Size: MaxModelFileBytes + 1}, []string{MsgFileTooLarge}},
		{"empty", &Upload{Filename: "rig.fbx", Size: 0}, []string{MsgEmptyFile}},
		{"missing", nil, []string{MsgNoFile}},
		{
			"txt",
			&Upload{Filename: "notes.txt", Size: 4},
			[]string{"File extension “txt” is not allowed. Allowed extensions are: glb, gltf, obj, fbx."},
		},
		{
			"dot file without stem",
			&Upload{Filename: ".glb", Size: 10},
			[]string{"File extension “” is not allowed. Allowed extensions are: glb, gltf, obj, fbx."},
		},
		{
			"trailing dot",
			&Upload{Filename: "rock.", Size: 10},
			[]string{"File extension “” is not allowed. Allowed extensions are: glb, gltf, obj, fbx."},
		},
		{
			"no extension and too large",
			&Upload{Filename: "blob", Size: MaxModelFileBytes + 1},
			[]string{"File extension “” is not allowed. Allowed extensions are: glb, gltf, obj, fbx.", MsgFileTooLarge},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsgs, ValidateModelFile(tt.upload))
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.Nil(t, ValidateName("Rock"))
	assert.Nil(t, ValidateName(strings.Repeat("é", MaxNameLength)))
	assert.Equal(t, []string{MsgBlank}, ValidateName("   "))
	assert.Nil(t, ValidateName("  "+strings.Repeat("a", MaxNameLength)+"\t"))
	assert.Equal(t,
		[]string{"Ensure this field has no more than 200 characters."},
		ValidateName(strings.Repeat("a", MaxNameLength+1)),
	)
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"rock.glb":    "glb",
		"Scene.GLTF":  "gltf",
		"a.b.obj":     "obj",
		"dir/rig.fbx": "fbx",
		"..glb":       "glb",
		".glb":        "",
		"rock.":       "",
		"rock":        "",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Extension(in), in)
	}
}

func TestValidateThumbnail_KeepsContentIntact(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	raw := append([]byte(nil), buf.Bytes()...)

	u := &Upload{Filename: "t.jpg", Size: int64(len(raw)), Content: &buf}
	assert.Nil(t, ValidateThumbnail(u))

	got, err := io.ReadAll(u.Content)
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestValidateThumbnail_Rejects(t *testing.T) {
	assert.Equal(t, []string{MsgInvalidImage},
		ValidateThumbnail(&Upload{Filename: "t.png", Size: 5, Content: strings.NewReader("hello")}))
	assert.Equal(t, []string{MsgEmptyFile},
		ValidateThumbnail(&Upload{Filename: "t.png", Size: 0, Content: strings.NewReader("")}))
}

func TestModelAsset_Touch(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &ModelAsset{CreatedAt: t0, UpdatedAt: t0}

	a.Touch(t0.Add(time.Second))
	assert.Equal(t, t0.Add(time.Second), a.UpdatedAt)

	a.Touch(t0)
	assert.Equal(t, t0.Add(time.Second), a.UpdatedAt, "updated_at must not move backwards")
	assert.Equal(t, t0, a.CreatedAt)
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.OrNil())

	verr.Add("name", MsgRequired)
	verr.Add("model_file", MsgNoFile)
	err := verr.OrNil()
	require.Error(t, err)
	assert.Equal(t, "validation failed: model_file: No file was submitted.; name: This field is required.", err.Error())
}
