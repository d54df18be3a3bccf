package descriptor

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/ark-network/descriptor/bip32"
)

// maxNestingDepth bounds parser recursion. The grammar only nests script
// expressions through sh(wsh(...)), two wrappers deep; the bound is checked
// before every recursive call so pathological input is rejected instead of
// growing the call stack.
const maxNestingDepth = 3

var extendedKeyPrefixes = []string{
	"xpub", "xprv", "tpub", "tprv", "spub", "sprv",
}

// Parse parses, checksum-verifies and validates a descriptor against mainnet
// parameters.
func Parse(desc string) (*Descriptor, error) {
	return ParseWithParams(desc, &chaincfg.MainNetParams)
}

// ParseWithParams is Parse with explicit chain parameters, used to decode
// addr() payloads and to build addresses later on.
func ParseWithParams(desc string, params *chaincfg.Params) (*Descriptor, error) {
	text := desc
	if i := strings.IndexByte(desc, '#'); i >= 0 {
		text = desc[:i]
		if err := VerifyChecksum(text, desc[i+1:]); err != nil {
			return nil, err
		}
	}

	if err := checkAlphabet(text); err != nil {
		return nil, err
	}

	p := &parser{in: text, params: params}
	expr, err := p.parseScript(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(text) {
		return nil, &SyntaxError{Offset: p.pos, Msg: "unexpected trailing input"}
	}

	if err := validate(expr); err != nil {
		return nil, err
	}

	return &Descriptor{Script: expr, params: params}, nil
}

// ParseKey parses a bare key expression, outside of any script function.
func ParseKey(s string) (*Key, error) {
	if err := checkAlphabet(s); err != nil {
		return nil, err
	}
	p := &parser{in: s, params: &chaincfg.MainNetParams}
	key, err := p.parseKey()
	if err != nil {
		return nil, err
	}
	if p.pos != len(s) {
		return nil, &SyntaxError{Offset: p.pos, Msg: "unexpected trailing input"}
	}
	return key, nil
}

func checkAlphabet(text string) error {
	for i := 0; i < len(text); i++ {
		if strings.IndexByte(inputCharset, text[i]) < 0 {
			return &SyntaxError{
				Offset: i,
				Msg: fmt.Sprintf(
					"character %q is not in the descriptor alphabet", text[i],
				),
			}
		}
	}
	return nil
}

type parser struct {
	in     string
	pos    int
	params *chaincfg.Params
}

func (p *parser) peek() byte {
	if p.pos >= len(p.in) {
		return 0
	}
	return p.in[p.pos]
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return &SyntaxError{
			Offset: p.pos,
			Msg:    fmt.Sprintf("expected %q", string(c)),
		}
	}
	p.pos++
	return nil
}

// readUntil returns the input up to (not including) the first delimiter or
// the end of input.
func (p *parser) readUntil(delims string) string {
	start := p.pos
	for p.pos < len(p.in) && strings.IndexByte(delims, p.in[p.pos]) < 0 {
		p.pos++
	}
	return p.in[start:p.pos]
}

func (p *parser) parseScript(depth int) (Expression, error) {
	start := p.pos
	name := p.readUntil("(),")
	if err := p.expect('('); err != nil {
		return nil, &SyntaxError{
			Offset: start,
			Msg:    fmt.Sprintf("expected a script function, got %q", name),
		}
	}

	var expr Expression
	switch name {
	case "pk", "pkh", "wpkh", "combo":
		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		switch name {
		case "pk":
			expr = &Pk{Key: key}
		case "pkh":
			expr = &Pkh{Key: key}
		case "wpkh":
			expr = &Wpkh{Key: key}
		case "combo":
			expr = &Combo{Key: key}
		}

	case "sh", "wsh":
		if depth+1 >= maxNestingDepth {
			return nil, &SyntaxError{
				Offset: start,
				Msg:    "maximum script nesting depth exceeded",
			}
		}
		inner, err := p.parseScript(depth + 1)
		if err != nil {
			return nil, err
		}
		if name == "sh" {
			expr = &Sh{Inner: inner}
		} else {
			expr = &Wsh{Inner: inner}
		}

	case "multi", "sortedmulti":
		threshold, err := p.parseNumber("threshold")
		if err != nil {
			return nil, err
		}
		var keys []*Key
		for p.peek() == ',' {
			p.pos++
			key, err := p.parseKey()
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		expr = &Multi{
			Threshold: int(threshold),
			Keys:      keys,
			Sorted:    name == "sortedmulti",
		}

	case "addr":
		argStart := p.pos
		arg := p.readUntil(")")
		address, err := btcutil.DecodeAddress(arg, p.params)
		if err != nil {
			return nil, &KeyEncodingError{
				Offset: argStart, Msg: "invalid address", Err: err,
			}
		}
		if !address.IsForNet(p.params) {
			return nil, &KeyEncodingError{
				Offset: argStart,
				Msg:    fmt.Sprintf("address is not valid for %s", p.params.Name),
			}
		}
		expr = &Addr{Address: address}

	case "raw":
		argStart := p.pos
		arg := p.readUntil(")")
		script, err := hex.DecodeString(arg)
		if err != nil {
			return nil, &SyntaxError{
				Offset: argStart,
				Msg:    "raw script must be hexadecimal",
			}
		}
		expr = &Raw{Script: script}

	default:
		return nil, &SyntaxError{
			Offset: start,
			Msg:    fmt.Sprintf("unknown script function %q", name),
		}
	}

	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *parser) parseKey() (*Key, error) {
	key := &Key{}

	if p.peek() == '[' {
		origin, err := p.parseOrigin()
		if err != nil {
			return nil, err
		}
		key.Origin = origin
	}

	bodyStart := p.pos
	body := p.readUntil("/,)")
	if body == "" {
		return nil, &SyntaxError{Offset: bodyStart, Msg: "empty key expression"}
	}
	if strings.ContainsAny(body, "[]") {
		return nil, &SyntaxError{
			Offset: bodyStart,
			Msg:    "key expression allows at most one leading key origin",
		}
	}

	switch {
	case isHexPubKey(body):
		raw, err := hex.DecodeString(body)
		if err != nil {
			return nil, &KeyEncodingError{
				Offset: bodyStart, Msg: "invalid hex public key", Err: err,
			}
		}
		pub, err := btcec.ParsePubKey(raw)
		if err != nil {
			return nil, &KeyEncodingError{
				Offset: bodyStart, Msg: "invalid public key", Err: err,
			}
		}
		key.PubKey = pub
		key.Uncompressed = len(raw) == 65

	case hasExtendedKeyPrefix(body):
		xkey, err := bip32.Parse(body)
		if err != nil {
			return nil, &KeyEncodingError{
				Offset: bodyStart, Msg: "invalid extended key", Err: err,
			}
		}
		key.XKey = xkey
		if p.peek() == '/' {
			path, err := p.parsePath()
			if err != nil {
				return nil, err
			}
			key.Path = path
		}

	default:
		wif, err := btcutil.DecodeWIF(body)
		if err != nil {
			return nil, &KeyEncodingError{
				Offset: bodyStart, Msg: "invalid WIF private key", Err: err,
			}
		}
		key.WIF = wif
	}

	if key.XKey == nil && p.peek() == '/' {
		return nil, &SyntaxError{
			Offset: p.pos,
			Msg:    "derivation path is only valid after an extended key",
		}
	}
	return key, nil
}

func (p *parser) parseOrigin() (*KeyOrigin, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}

	fpStart := p.pos
	if len(p.in)-p.pos < 8 {
		return nil, &SyntaxError{
			Offset: fpStart,
			Msg:    "fingerprint must be 8 hex characters",
		}
	}
	fpRaw, err := hex.DecodeString(p.in[p.pos : p.pos+8])
	if err != nil {
		return nil, &SyntaxError{
			Offset: fpStart,
			Msg:    "fingerprint must be 8 hex characters",
		}
	}
	p.pos += 8

	origin := &KeyOrigin{}
	copy(origin.Fingerprint[:], fpRaw)

	for p.peek() == '/' {
		p.pos++
		index, err := p.parseNumber("child index")
		if err != nil {
			return nil, err
		}
		if hardened := p.parseHardener(); hardened {
			index += bip32.HardenedKeyStart
		}
		origin.Path = append(origin.Path, index)
	}

	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return origin, nil
}

func (p *parser) parsePath() (Path, error) {
	var path Path
	sawMultipath := false

	for p.peek() == '/' {
		p.pos++
		stepStart := p.pos

		if len(path) > 0 && path[len(path)-1].Wildcard {
			return nil, &SyntaxError{
				Offset: stepStart - 1,
				Msg:    "wildcard must be the final path step",
			}
		}

		step := PathStep{}
		switch p.peek() {
		case '*':
			p.pos++
			step.Wildcard = true

		case '<':
			if sawMultipath {
				return nil, &SyntaxError{
					Offset: stepStart,
					Msg:    "only one multipath step is allowed per key",
				}
			}
			p.pos++
			for {
				index, err := p.parseNumber("child index")
				if err != nil {
					return nil, err
				}
				step.Indices = append(step.Indices, index)
				if p.peek() != ';' {
					break
				}
				p.pos++
			}
			if err := p.expect('>'); err != nil {
				return nil, err
			}
			if len(step.Indices) < 2 {
				return nil, &SyntaxError{
					Offset: stepStart,
					Msg:    "multipath step needs at least two alternatives",
				}
			}
			sawMultipath = true

		default:
			index, err := p.parseNumber("child index")
			if err != nil {
				return nil, err
			}
			step.Indices = []uint32{index}
		}

		step.Hardened = p.parseHardener()
		path = append(path, step)
	}
	return path, nil
}

// parseNumber reads an unhardened child index, bounded below 2^31.
func (p *parser) parseNumber(what string) (uint32, error) {
	start := p.pos
	var value uint64
	for p.pos < len(p.in) && p.in[p.pos] >= '0' && p.in[p.pos] <= '9' {
		value = value*10 + uint64(p.in[p.pos]-'0')
		if value >= uint64(bip32.HardenedKeyStart) {
			return 0, &SyntaxError{
				Offset: start,
				Msg:    fmt.Sprintf("%s out of range", what),
			}
		}
		p.pos++
	}
	if p.pos == start {
		return 0, &SyntaxError{
			Offset: start,
			Msg:    fmt.Sprintf("expected %s", what),
		}
	}
	return uint32(value), nil
}

func (p *parser) parseHardener() bool {
	if c := p.peek(); c == '\'' || c == 'h' {
		p.pos++
		return true
	}
	return false
}

func isHexPubKey(s string) bool {
	if len(s) < 2 {
		return false
	}
	switch s[:2] {
	case "02", "03", "04":
	default:
		return false
	}
	for _, c := range s {
		if !isHexDigit(byte(c)) {
			return false
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func hasExtendedKeyPrefix(s string) bool {
	for _, prefix := range extendedKeyPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
