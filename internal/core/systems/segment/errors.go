package segment

import "errors"

var ErrInvalidSpacing = errors.New("segment: spacing must be positive")
