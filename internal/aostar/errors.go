package aostar

import "errors"

var ErrUnknownCyclePolicy = errors.New("unknown cycle policy")
