package capture

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hsn0918/docindex/internal/direrr"
)

const (
	defaultDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:sectPr/></w:body></w:document>`
	defaultStylesXML   = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"></w:styles>`
	defaultRelsXML      = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`
	defaultPackageRels  = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`
	defaultContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/></Types>`
)

// ReadDocxPart returns the raw bytes of partName inside capturePath's zip
// package, or ok=false if the part is absent. A non-docx/unreadable archive
// is reported as ErrNotDocx.
func ReadDocxPart(capturePath, partName string) ([]byte, bool, error) {
	zr, err := zip.OpenReader(capturePath)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", direrr.ErrNotDocx, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != partName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", direrr.ErrXMLParse, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", direrr.ErrXMLParse, err)
		}
		return data, true, nil
	}
	return nil, false, nil
}

// CreateBlankDocx writes a minimal valid empty .docx package to capturePath,
// creating parent directories as needed.
func CreateBlankDocx(capturePath string) error {
	if dir := filepath.Dir(capturePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("capture: create target folder %q: %w", dir, err)
		}
	}

	f, err := os.Create(capturePath)
	if err != nil {
		return fmt.Errorf("capture: create capture docx %q: %w", capturePath, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	parts := map[string]string{
		"[Content_Types].xml":            defaultContentTypes,
		"_rels/.rels":                    defaultPackageRels,
		"word/document.xml":              defaultDocumentXML,
		"word/styles.xml":                defaultStylesXML,
		"word/_rels/document.xml.rels":   defaultRelsXML,
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("capture: create capture docx part %q: %w", name, err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			return fmt.Errorf("capture: write capture docx part %q: %w", name, err)
		}
	}
	return zw.Close()
}

// EnsureValidCaptureDocx creates capturePath if it does not yet exist, or
// backs it up and recreates it if it exists but lacks word/document.xml.
func EnsureValidCaptureDocx(capturePath string) error {
	info, err := os.Stat(capturePath)
	if err != nil || info.IsDir() {
		return CreateBlankDocx(capturePath)
	}

	_, ok, err := ReadDocxPart(capturePath, "word/document.xml")
	if err == nil && ok {
		return nil
	}

	backupPath := capturePath[:len(capturePath)-len(filepath.Ext(capturePath))] + ".docx.bak"
	_ = copyFile(capturePath, backupPath)
	return CreateBlankDocx(capturePath)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
