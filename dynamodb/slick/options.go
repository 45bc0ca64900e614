package slick

import (
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/rs/zerolog"
)

// Option configures a Client or a Keys accumulator.
type Option func(*options)

type options struct {
	encoderOpts []func(*attributevalue.EncoderOptions)
	logger      zerolog.Logger
}

func newOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithEncoderOptions adjusts how values are marshalled into attribute
// values, e.g. to use json struct tags.
func WithEncoderOptions(fn func(*attributevalue.EncoderOptions)) Option {
	return func(o *options) {
		o.encoderOpts = append(o.encoderOpts, fn)
	}
}

// WithLogger sets the logger of a Client. Nothing is logged by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
