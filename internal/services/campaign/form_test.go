package campaign

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
)

type filePart struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

type formBuilder struct {
	values [][2]string
	files  []filePart
}

func newForm(kv ...string) *formBuilder {
	b := &formBuilder{}
	for i := 0; i+1 < len(kv); i += 2 {
		b.values = append(b.values, [2]string{kv[i], kv[i+1]})
	}
	return b
}

func (b *formBuilder) file(field, filename, contentType string, data []byte) *formBuilder {
	b.files = append(b.files, filePart{field, filename, contentType, data})
	return b
}

// encode writes the multipart body and returns it with its content type
func (b *formBuilder) encode(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range b.values {
		require.NoError(t, w.WriteField(kv[0], kv[1]))
	}
	for _, f := range b.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.field, f.filename))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (b *formBuilder) build(t *testing.T) *multipart.Form {
	t.Helper()
	buf, contentType := b.encode(t)
	boundary := contentType[len("multipart/form-data; boundary="):]
	form, err := multipart.NewReader(buf, boundary).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func png(size int) []byte {
	return bytes.Repeat([]byte{0x89}, size)
}
