package constants

import (
	"net/http"
	"strings"
)

// MIME dokumen kandidat yang diterima
const (
	MimePDF  = "application/pdf"
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWebP = "image/webp"
)

var DefaultDocumentMimes = []string{MimePDF, MimeJPEG, MimePNG}

// MaxDocumentSizeMB: batas atas max_size_mb per jenis dokumen.
const MaxDocumentSizeMB = 20

// DetectDocumentMime: sniff dari isi file, bukan dari header multipart.
func DetectDocumentMime(head []byte) string {
	ct := http.DetectContentType(head)
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

func IsImageMime(m string) bool {
	return m == MimeJPEG || m == MimePNG || m == MimeWebP
}

// ExtForMime: ekstensi object storage per MIME.
func ExtForMime(m string) string {
	switch m {
	case MimePDF:
		return ".pdf"
	case MimeJPEG:
		return ".jpg"
	case MimePNG:
		return ".png"
	case MimeWebP:
		return ".webp"
	default:
		return ".bin"
	}
}

// FormatHint: "Format: PDF, JPG, PNG" dari daftar MIME.
func FormatHint(mimes []string) string {
	names := make([]string, 0, len(mimes))
	for _, m := range mimes {
		switch m {
		case MimePDF:
			names = append(names, "PDF")
		case MimeJPEG:
			names = append(names, "JPG")
		case MimePNG:
			names = append(names, "PNG")
		case MimeWebP:
			names = append(names, "WEBP")
		}
	}
	return "Format: " + strings.Join(names, ", ")
}

// AcceptAttr: nilai atribut accept untuk input file, mis. "application/pdf,image/jpeg,.pdf,.jpg".
func AcceptAttr(mimes []string) string {
	parts := make([]string, 0, len(mimes)*2)
	parts = append(parts, mimes...)
	for _, m := range mimes {
		parts = append(parts, ExtForMime(m))
	}
	return strings.Join(parts, ",")
}
