package hdfeos

import "github.com/sirupsen/logrus"

// DefaultSwathClass is the Vgroup class HDF-EOS gives swaths.
const DefaultSwathClass = "SWATH"

// Option configures a Container.
type Option func(*options)

type options struct {
	logger     logrus.FieldLogger
	swathClass string
}

func defaultOptions() *options {
	return &options{
		logger:     logrus.StandardLogger(),
		swathClass: DefaultSwathClass,
	}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for handle lifecycle events.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSwathClass sets the Vgroup class that marks a swath in the catalog.
func WithSwathClass(class string) Option {
	return func(o *options) {
		if class != "" {
			o.swathClass = class
		}
	}
}
