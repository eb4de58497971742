package domain

import "errors"

var (
	// ErrUnknownDocumentType signals a document type name outside the known set.
	ErrUnknownDocumentType = errors.New("unknown document type")
	// ErrFacetConfig signals that the facet configuration is out of sync with
	// the facet fields the service requests.
	ErrFacetConfig = errors.New("facet configuration out of sync")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
)
