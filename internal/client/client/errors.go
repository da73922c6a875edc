package client

import (
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = common.ErrorUnauthorized
)
