package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "cv.pdf", want: "cv.pdf"},
		{name: "path separators", in: "../../etc/passwd", want: ".._.._etc_passwd"},
		{name: "windows separators", in: `..\..\boot.ini`, want: ".._.._boot.ini"},
		{name: "control chars", in: "a\x00b\x1fc.pdf", want: "a_b_c.pdf"},
		{name: "reserved chars", in: `a<b>c:d"e|f?g*h.pdf`, want: "a_b_c_d_e_f_g_h.pdf"},
		{name: "empty", in: "", want: "unnamed"},
		{name: "dots only", in: "...", want: "unnamed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, SanitizeName(string(long)), 200)
}

func TestFileKeyJailsSegments(t *testing.T) {
	key := FileKey("../acme", "eng/../", "../../cv.pdf")
	assert.NotContains(t, key[len("files/"):], "/../")
	assert.Equal(t, "files/.._acme/eng_.._/.._.._cv.pdf", key)
}

func TestFSStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	key := FileKey("Acme", "Engineer", "cv1.pdf")
	require.NoError(t, store.Put(ctx, key, bytes.NewReader([]byte("pdf-bytes"))))

	ok, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := store.Get(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}

func TestFSStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	key := FileKey("Acme", "Engineer", "cv1.pdf")
	require.NoError(t, store.Put(ctx, key, bytes.NewReader([]byte("v1"))))
	require.NoError(t, store.Put(ctx, key, bytes.NewReader([]byte("v2"))))

	rc, err := store.Get(ctx, key)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "v2", string(data))
}

func TestFSStoreDeleteMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(ctx, FileKey("Acme", "Engineer", "nope.pdf")))
}

func TestFSStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(ctx, FileKey("Acme", "Engineer", "nope.pdf"))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFSStoreCopyAndList(t *testing.T) {
	ctx := context.Background()
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"a.pdf", "b.pdf"} {
		require.NoError(t, store.Put(ctx, FileKey("Acme", "Engineer", name), bytes.NewReader([]byte(name))))
	}

	require.NoError(t, store.Copy(ctx,
		FileKey("Acme", "Engineer", "a.pdf"),
		FileKey("Beta", "Engineer", "a.pdf"),
	))

	keys, err := store.List(ctx, ClientFilePrefix("Acme"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"files/Acme/Engineer/a.pdf",
		"files/Acme/Engineer/b.pdf",
	}, keys)

	keys, err = store.List(ctx, ClientFilePrefix("Beta"))
	require.NoError(t, err)
	assert.Equal(t, []string{"files/Beta/Engineer/a.pdf"}, keys)

	// Listing an absent prefix is empty, not an error.
	keys, err = store.List(ctx, ClientFilePrefix("Nobody"))
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFSStoreRejectsEscape(t *testing.T) {
	ctx := context.Background()
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	err = store.Put(ctx, "../outside.txt", bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, ErrPathEscape)
}
