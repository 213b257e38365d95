package cost

import "errors"

var (
	ErrTemplateNotFound    = errors.New("template not found")
	ErrUnsupportedTemplate = errors.New("unsupported template type")
)
