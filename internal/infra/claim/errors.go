package claim

import "errors"

var ErrEmptyClaimKey = errors.New("empty claim key")
