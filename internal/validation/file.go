package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// FileKind is the category of an uploaded file
type FileKind string

const (
	KindPDF   FileKind = "pdf"
	KindImage FileKind = "image"
)

var (
	ErrNoFile              = errors.New("no file provided")
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileTypeUnsupported = errors.New("unsupported file type")
	ErrUnreadablePDF       = errors.New("pdf could not be read")
)

// File is an upload that passed validation
type File struct {
	Name        string
	Data        []byte
	ContentType string
	Extension   string
	// TotalPages is set for PDFs only, 0 when the page tree is unreadable
	TotalPages int
	// PageCountErr holds the parse error behind an unknown page count
	PageCountErr error
}

// ValidateUpload checks size and sniffed content of an uploaded file.
// The returned status code is meaningful only when err is not nil.
func ValidateUpload(fh *multipart.FileHeader, kind FileKind, maxSize int64) (*File, int, error) {
	if fh == nil {
		return nil, http.StatusBadRequest, ErrNoFile
	}

	// Header size is client supplied, so the read below is bounded as well
	if fh.Size > maxSize {
		return nil, http.StatusRequestEntityTooLarge, ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if int64(len(data)) > maxSize {
		return nil, http.StatusRequestEntityTooLarge, ErrFileTooLarge
	}

	return ValidateContent(fh.Filename, data, kind)
}

// ValidateContent sniffs data and checks it matches kind
func ValidateContent(name string, data []byte, kind FileKind) (*File, int, error) {
	if len(data) == 0 {
		return nil, http.StatusBadRequest, ErrNoFile
	}

	mime := mimetype.Detect(data)

	file := &File{
		Name:        name,
		Data:        data,
		ContentType: mime.String(),
		Extension:   mime.Extension(),
	}

	switch kind {
	case KindPDF:
		if !mime.Is("application/pdf") {
			return nil, http.StatusBadRequest, ErrFileTypeUnsupported
		}
		// An unreadable page tree leaves the length unknown
		pages, err := CountPDFPages(data)
		if err != nil {
			file.PageCountErr = err
		}
		file.TotalPages = pages
	case KindImage:
		if !strings.HasPrefix(mime.String(), "image/") {
			return nil, http.StatusBadRequest, ErrFileTypeUnsupported
		}
	default:
		return nil, http.StatusBadRequest, ErrFileTypeUnsupported
	}

	return file, 0, nil
}

// CountPDFPages returns the page count declared by the PDF page tree
func CountPDFPages(data []byte) (pages int, err error) {
	// The parser panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("%w: %v", ErrUnreadablePDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadablePDF, err)
	}
	return reader.NumPage(), nil
}
