package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDocumentFileType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		filename    string
		want        bool
	}{
		{"pdf by content type", "application/pdf", "poliza.pdf", true},
		{"jpeg by content type", "image/jpeg", "carnet.jpg", true},
		{"png by extension only", "application/octet-stream", "scan.png", true},
		{"uppercase extension", "", "POLIZA.PDF", true},
		{"webp", "image/webp", "foto.webp", true},
		{"executable rejected", "application/x-msdownload", "malware.exe", false},
		{"svg rejected", "image/svg+xml", "img.svg", false},
		{"no hints", "", "archivo", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateDocumentFileType(tt.contentType, tt.filename))
		})
	}
}

func TestContentTypeForFilename(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeForFilename("poliza.pdf"))
	assert.Equal(t, "image/jpeg", ContentTypeForFilename("carnet.JPEG"))
	assert.Equal(t, "application/octet-stream", ContentTypeForFilename("archivo.bin"))
}

func TestDocumentKey(t *testing.T) {
	key := DocumentKey("8b9c2f8e-0000-0000-0000-000000000000", "rc", "poliza.pdf")
	assert.Equal(t, "documentos/8b9c2f8e-0000-0000-0000-000000000000/rc/poliza.pdf", key)

	// path traversal in the filename is stripped
	key = DocumentKey("user", "carnet", "../../etc/passwd")
	assert.Equal(t, "documentos/user/carnet/passwd", key)
}
