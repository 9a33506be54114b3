package object

import (
	"github.com/ezrec/bytevm/translate"
)

var (
	// Object file errors
	ErrObjectName = translate.Error("invalid object file name")
	ErrObjectOdd  = translate.Error("object file has a partial instruction")
)
