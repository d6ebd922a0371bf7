package codec

import "errors"

var ErrNotUTF8 = errors.New("content is not valid UTF-8")
var ErrInvalidJSON = errors.New("content is not valid JSON")
var ErrNotArray = errors.New("content is not a JSON array")
var ErrNotObject = errors.New("content is not a JSON object")
