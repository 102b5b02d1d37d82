package domain

import (
	"reflect"
	"testing"
)

func TestClassifyExtension(t *testing.T) {
	tests := []struct {
		path string
		want FileKind
	}{
		{"scan.jpg", KindImage},
		{"scan.JPEG", KindImage},
		{"/tmp/a.b/photo.png", KindImage},
		{"anim.gif", KindImage},
		{"old.bmp", KindImage},
		{"fax.tiff", KindImage},
		{"fax.TIF", KindImage},
		{"contract.pdf", KindPDF},
		{"contract.PDF", KindPDF},
		{"notes.txt", KindUnknown},
		{"webp.webp", KindUnknown},
		{"noextension", KindUnknown},
		{"trailingdot.", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ClassifyExtension(Extension(tt.path)); got != tt.want {
				t.Errorf("ClassifyExtension(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSupportedExtensionsOrder(t *testing.T) {
	want := []string{"jpg", "jpeg", "png", "gif", "bmp", "tiff", "tif", "pdf"}
	if !reflect.DeepEqual(SupportedExtensions, want) {
		t.Errorf("SupportedExtensions = %v, want %v", SupportedExtensions, want)
	}
	if len(ImageExtensions) != 7 {
		t.Errorf("ImageExtensions must not be extended by SupportedExtensions, got %v", ImageExtensions)
	}
}

func TestOptionsLanguages(t *testing.T) {
	tests := []struct {
		lang string
		want []string
	}{
		{"spa", []string{"spa"}},
		{"spa+eng", []string{"spa", "eng"}},
		{" spa + eng ", []string{"spa", "eng"}},
		{"spa++eng", []string{"spa", "eng"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := Options{Language: tt.lang}.Languages()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Languages() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
