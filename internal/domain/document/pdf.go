package document

import "errors"

// ErrPDFNotSupported indicates PDF text extraction is not yet implemented.
// PDF uploads must be converted to text/CSV/XLSX by the caller for now.
var ErrPDFNotSupported = errors.New("PDF extraction not yet supported")
