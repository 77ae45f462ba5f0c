package dmg

// Option configures a DMG at construction.
type Option func(d *DMG)

// WithBootROM maps a boot ROM over 0x0000-0x00FF. Execution starts at 0 and
// the boot ROM is unmapped when it writes 0xFF50.
func WithBootROM(rom []byte) Option {
	return func(d *DMG) {
		d.bootROM = append([]byte(nil), rom...)
	}
}

// WithStrictOpcodes makes illegal opcodes fault the CPU instead of running
// as no-ops.
func WithStrictOpcodes() Option {
	return func(d *DMG) {
		d.strict = true
	}
}
