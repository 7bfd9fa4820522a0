package main

import (
	"errors"

	"chime/internal/config"
)

func errorIsNotFound(err error) bool {
	return errors.Is(err, config.ErrNotFound)
}
