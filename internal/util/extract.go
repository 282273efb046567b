package util

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrCorruptDocument   = errors.New("corrupt document")
)

// MinTextLength is the shortest text layer accepted before falling back to OCR.
const MinTextLength = 50

var SupportedExtensions = []string{".pdf", ".docx", ".doc"}

func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtractText returns the plain text of a resume document.
func ExtractText(data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrCorruptDocument, filename)
	}

	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	case ".doc":
		text, err = extractDOC(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filename, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: no text extracted from %s", ErrCorruptDocument, filename)
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open PDF: %v", ErrCorruptDocument, err)
	}
	defer doc.Close()

	var fullText strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if len(result) >= MinTextLength {
		return result, nil
	}

	// scanned documents have no text layer
	ocrText, err := extractPDFOCR(doc)
	if err != nil {
		if result != "" {
			return result, nil
		}
		return "", err
	}
	return ocrText, nil
}

// extractPDFOCR renders every page and runs it through tesseract.
func extractPDFOCR(doc *fitz.Document) (string, error) {
	if err := checkTesseract(); err != nil {
		return "", fmt.Errorf("%w: no text layer and OCR unavailable: %v", ErrCorruptDocument, err)
	}

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to extract image: %w", n+1, err)
			continue
		}

		pageText, err := ocrImage(img)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", n+1, err)
			continue
		}
		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if result == "" {
		if lastErr != nil {
			return "", fmt.Errorf("%w: failed to extract text via OCR: %v", ErrCorruptDocument, lastErr)
		}
		return "", fmt.Errorf("%w: no text extracted from PDF", ErrCorruptDocument)
	}
	return result, nil
}

func ocrImage(img image.Image) (string, error) {
	tmpFile, err := os.CreateTemp("", "page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	tmpFile.Close()

	out, err := exec.Command("tesseract", tmpPath, "stdout", "-l", "eng").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tesseract error: %w, output: %s", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

func checkTesseract() error {
	out, err := exec.Command("tesseract", "-v").CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w\nOutput: %s", err, string(out))
	}
	return nil
}

// extractDOCX reads word/document.xml out of the OOXML zip container.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx archive: %v", ErrCorruptDocument, err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}
		defer rc.Close()
		return docxText(rc)
	}
	return "", fmt.Errorf("%w: word/document.xml missing", ErrCorruptDocument)
}

func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// extractDOC shells out to antiword for legacy Word files.
func extractDOC(data []byte) (string, error) {
	tmpFile, err := os.CreateTemp("", "resume-*.doc")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	tmpFile.Close()

	out, err := exec.Command("antiword", tmpPath).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: antiword failed: %v: %s", ErrCorruptDocument, err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
