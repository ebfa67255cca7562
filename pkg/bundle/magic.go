// Package bundle implements the self-extracting executable format: the
// append-only payload layout, the footer that locates it from the tail of
// a running image, and the JSON manifest that indexes it.
package bundle

// Magic identifies a packed file and its format version. It occupies the
// final 9 bytes of any file produced by this package. Bumping the format
// is a matter of changing this one constant (see SPEC_FULL.md §9).
const Magic = "VISTUT_V1"

// FooterSize is the fixed size, in bytes, of the trailing locator block:
// an 8-byte little-endian manifest length followed by Magic.
const FooterSize = 8 + len(Magic)
