package export

import "github.com/hupe1980/vaultgraph"

// DefaultDelimiter separates CSV fields.
const DefaultDelimiter = ';'

type options struct {
	delimiter    rune
	storeOptions []vaultgraph.Option
}

// Option configures the CSV adapter.
type Option func(*options)

// WithDelimiter sets the CSV field separator.
func WithDelimiter(r rune) Option {
	return func(o *options) {
		if r != 0 {
			o.delimiter = r
		}
	}
}

// WithStoreOptions passes options to the store built by ReadCSV.
func WithStoreOptions(optFns ...vaultgraph.Option) Option {
	return func(o *options) {
		o.storeOptions = append(o.storeOptions, optFns...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{delimiter: DefaultDelimiter}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
