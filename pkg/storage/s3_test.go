package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	cases := []struct {
		name     string
		kind     UploadKind
		filename string
		size     int64
		wantCT   string
		wantErr  bool
	}{
		{"avatar jpg ok", KindAvatar, "me.jpg", 1024, "image/jpeg", false},
		{"avatar gif ok", KindAvatar, "me.GIF", 1024, "image/gif", false},
		{"avatar too large", KindAvatar, "me.png", MaxAvatarSize + 1, "", true},
		{"avatar at limit", KindAvatar, "me.png", MaxAvatarSize, "image/png", false},
		{"avatar pdf rejected", KindAvatar, "me.pdf", 1024, "", true},
		{"document pdf ok", KindDocument, "license.pdf", 10 << 20, "application/pdf", false},
		{"document too large", KindDocument, "license.pdf", MaxDocumentSize + 1, "", true},
		{"document webp rejected", KindDocument, "license.webp", 1024, "", true},
		{"event webp ok", KindEventImage, "cover.webp", 1024, "image/webp", false},
		{"event gif rejected", KindEventImage, "cover.gif", 1024, "", true},
		{"event too large", KindEventImage, "cover.jpg", MaxEventImageSize + 1, "", true},
		{"zero size", KindAvatar, "me.jpg", 0, "", true},
		{"no extension", KindAvatar, "me", 1024, "", true},
		{"unknown kind", UploadKind("misc"), "x.jpg", 1024, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ct, err := ValidateUpload(tc.kind, tc.filename, tc.size)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCT, ct)
		})
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(KindAvatar, "owner-1", "me.jpg")
	assert.Equal(t, "avatars/owner-1/me.jpg", key)

	// Path components in the filename are stripped.
	key = ObjectKey(KindDocument, "owner-1", "../../etc/passwd")
	assert.Equal(t, "documents/owner-1/passwd", key)
}
