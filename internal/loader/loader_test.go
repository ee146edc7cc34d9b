package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/objkit/pkg/encoding"
	"github.com/Faultbox/objkit/pkg/formats"
)

const triangleOBJ = "g Body\nusemtl skin\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tri.obj", []byte(triangleOBJ))

	obj, err := LoadFile(path, Options{Validate: true})
	require.NoError(t, err)
	assert.Equal(t, 3, obj.VertexCount())
	assert.Equal(t, []formats.OBJGroup{{ID: "Body", Material: "skin", Offset: 0, Size: 1}}, obj.Groups)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.obj"), Options{})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, triangleOBJ...)

	obj, err := Load(data, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Body", obj.Groups[0].ID)
}

func TestLoad_Charset(t *testing.T) {
	data, err := encoding.EncodeText("g 몸통\nusemtl 갑옷\nf 1 2 3\n", "euc-kr")
	require.NoError(t, err)

	obj, err := Load(data, Options{Charset: "euc-kr"})
	require.NoError(t, err)
	assert.Equal(t, "몸통", obj.Groups[0].ID)
	assert.Equal(t, "갑옷", obj.Groups[0].Material)

	_, err = Load(data, Options{Charset: "no-such-charset"})
	assert.ErrorIs(t, err, encoding.ErrUnknownCharset)
}

func TestLoad_ParseOptions(t *testing.T) {
	data := []byte("v 1 nope 3\nvn 0 0 1\n")

	_, err := Load(data, Options{})
	var numErr *formats.MalformedNumberError
	assert.ErrorAs(t, err, &numErr)

	obj, err := Load(data, Options{Parse: formats.OBJParseOptions{Permissive: true, ParseNormals: true}})
	require.NoError(t, err)
	assert.Len(t, obj.Vertices, 3)
	assert.Equal(t, []float32{0, 0, 1}, obj.Normals)
}

func TestLoadFile_Validate(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.obj", []byte("v 0 0 0\nf 1 2 3\n"))

	_, err := LoadFile(path, Options{Validate: true})
	var refErr *formats.OutOfRangeReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Contains(t, err.Error(), path)

	obj, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Len(t, obj.Polygons, 1)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "live.obj", []byte(triangleOBJ))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *formats.OBJ, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, Options{}, func(obj *formats.OBJ, err error) {
			if err != nil {
				return
			}
			select {
			case results <- obj:
			default:
			}
		})
	}()

	waitFor := func(polygons int) {
		t.Helper()
		timeout := time.After(5 * time.Second)
		for {
			select {
			case obj := <-results:
				if len(obj.Polygons) == polygons {
					return
				}
			case <-timeout:
				t.Fatalf("timed out waiting for a parse with %d polygons", polygons)
			}
		}
	}

	waitFor(1)

	// Unrelated files in the same directory are ignored.
	writeFile(t, dir, "other.obj", []byte("f 1 2 3\nf 1 2 3\nf 1 2 3\n"))

	require.NoError(t, os.WriteFile(path, []byte(triangleOBJ+"f 3 2 1\n"), 0644))
	waitFor(2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "x.obj"), Options{}, func(*formats.OBJ, error) {})
	assert.Error(t, err)
}
