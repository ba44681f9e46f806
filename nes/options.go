package nes

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Option configures a Bus when it is created.
type Option func(b *Bus) error

func (b *Bus) setOptions(options ...Option) error {
	for i, option := range options {
		if err := option(b); err != nil {
			return errors.Wrapf(err, "failed to set option index %d", i)
		}
	}
	return nil
}

// WithLogger traces every CPU instruction to l.
func WithLogger(l *log.Logger) Option {
	return func(b *Bus) error {
		b.Cpu.Logger = l
		return nil
	}
}

// WithLogFile traces every CPU instruction to a new timestamped file in dir.
func WithLogFile(dir string) Option {
	return func(b *Bus) error {
		if err := os.MkdirAll(dir, 0775); err != nil {
			return errors.Wrap(err, "unable to create log directory")
		}

		now := time.Now()
		logFile := filepath.Join(dir, fmt.Sprintf("cpu%s.log", now.Format("20060102-150405")))
		f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0664)
		if err != nil {
			return errors.Wrap(err, "unable to create CPU log file")
		}

		b.Cpu.Logger = log.New(f, "", 0)
		return nil
	}
}

// WithDecimalMode enables binary coded decimal arithmetic, which the NES CPU
// lacks but a stock 6502 has.
func WithDecimalMode(enabled bool) Option {
	return func(b *Bus) error {
		b.Cpu.DecimalEnabled = enabled
		return nil
	}
}

// WithCartridge loads the iNES ROM at path and inserts it.
func WithCartridge(path string) Option {
	return func(b *Bus) error {
		cart, err := NewCartridge(path)
		if err != nil {
			return err
		}

		b.InsertCartridge(cart)
		return nil
	}
}
