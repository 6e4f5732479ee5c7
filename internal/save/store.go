package save

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrSlotNotFound is returned by Read when a slot has never been written.
var ErrSlotNotFound = errors.New("save: slot not found")

// Store holds encoded fragments by slot name.
type Store interface {
	Write(ctx context.Context, slot string, data []byte) error
	Read(ctx context.Context, slot string) ([]byte, error)
	Close() error
}

func validSlot(slot string) error {
	if slot == "" || strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return fmt.Errorf("save: invalid slot name %q", slot)
	}
	return nil
}
