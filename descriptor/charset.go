package descriptor

// inputCharset is the BIP380 descriptor alphabet. The position of a character
// determines the 5-bit symbol (low bits) and the group value (high bits) it
// contributes to the checksum.
const inputCharset = "0123456789()[],'/*abcdefgh@:$%{}IJKLMNOPQRSTUVWXYZ&+-.;<=>?!^_|~ijklmnopqrstuvwxyzABCDEFGH`#\"\\ "

// checksumCharset encodes the final 40-bit checksum, 5 bits per character.
const checksumCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// generator holds the BCH generator constants of the BIP380 checksum
// polynomial over GF(32).
var generator = [5]uint64{
	0xf5dee51989,
	0xa9fdca3312,
	0x1bab10e32d,
	0x3706b1677a,
	0x644d626ffd,
}
