package dd

// Tags used by the HDF4 Vgroup, Vdata and SD interfaces.
const (
	TagNull       uint16 = 1
	TagLinked     uint16 = 20
	TagVersion    uint16 = 30
	TagCompressed uint16 = 40
	TagNT         uint16 = 106
	TagSDD        uint16 = 701 // dimension record
	TagSD         uint16 = 702 // scientific data
	TagSDS        uint16 = 703 // dimension scales
	TagSDL        uint16 = 704 // labels
	TagFV         uint16 = 732 // fill value
	TagNDG        uint16 = 720 // numeric data group
	TagVH         uint16 = 1962
	TagVS         uint16 = 1963
	TagVG         uint16 = 1965
)

// Special element codes stored at the head of a special element.
const (
	SpecialLinked     uint16 = 1
	SpecialExternal   uint16 = 2
	SpecialCompressed uint16 = 3
	SpecialVLinked    uint16 = 4
	SpecialChunked    uint16 = 5
	SpecialBuffered   uint16 = 6
	SpecialCompRAS    uint16 = 7
)

const specialBit = 0x4000

// IsSpecial reports whether tag is the special form of some base tag.
func IsSpecial(tag uint16) bool {
	return tag&0x8000 == 0 && tag&specialBit != 0
}

// BaseTag strips the special bit from tag.
func BaseTag(tag uint16) uint16 {
	if IsSpecial(tag) {
		return tag &^ specialBit
	}
	return tag
}

// SpecialTag returns the special form of a base tag.
func SpecialTag(tag uint16) uint16 {
	return tag | specialBit
}
