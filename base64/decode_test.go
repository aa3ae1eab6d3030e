package base64

import (
	"iter"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/josephcopenhaver/tbdd-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josephcopenhaver/unival"
)

func TestDecodedLength(t *testing.T) {
	t.Parallel()

	is := assert.New(t)

	is.Equal(-1, DecodedLength(-1))
	is.Equal(0, DecodedLength(0))
	is.Equal(0, DecodedLength(1))
	is.Equal(1, DecodedLength(2))
	is.Equal(2, DecodedLength(3))
	is.Equal(3, DecodedLength(4))
	is.Equal(math.MaxInt/4*3+2, DecodedLength(math.MaxInt))

	// the bound holds for every encodable length and option
	for n := range 100 {
		for _, o := range []Options{Default, URL, DefaultNoPadding, URLWithPadding} {
			is.GreaterOrEqual(DecodedLength(EncodedLength(n, o)), n)
		}
	}
}

type dCall uint8

const (
	decCall dCall = iota + 1
	appendDecCall
	appendDecStrCall
	unsafeDecCall
	decIntoCall
)

type decodeTC struct {
	// the function operation to call
	call dCall
	// opts selects the alphabet
	opts Options
	// policy is the last chunk policy
	policy LastChunk
	// src is the base64 text to decode
	src string
	// dst is where decoded data will be placed
	dst []byte

	// expectations

	expStr      string
	expConsumed int
	expKind     unival.ErrorKind
	expPos      int
	expPanic    any
}

type decodeTCR struct {
	str      string
	consumed int
	err      error
}

func (tc decodeTC) clone() decodeTC {
	ctc := tc

	ctc.dst = slices.Clone(tc.dst)

	return ctc
}

func cloneDecodeTC(tc decodeTC) decodeTC {
	return tc.clone()
}

func descDecodeTC(t *testing.T, cfg tbdd.Describe[decodeTC]) tbdd.DescribeResponse {
	t.Helper()

	is := assert.New(t)

	tc := cfg.TC
	then := cfg.Then

	is.NotEmpty(cfg.When)
	if then == "" {
		switch {
		case tc.expPanic != nil:
			then = "should panic"
		case tc.expKind != unival.Success:
			then = "should fail with " + tc.expKind.String()
		default:
			then = "should decode under " + tc.policy.String()
		}
	}

	return tbdd.DescribeResponse{
		When: cfg.When,
		Then: then,
	}
}

func runDecodeTC(t *testing.T, tc decodeTC) decodeTCR {
	t.Helper()

	is := assert.New(t)

	var src []byte
	if len(tc.src) > 0 {
		src = []byte(tc.src)
	}

	switch tc.call {
	case decCall:
		is.Nil(tc.dst)

		resp, err := Decode(src, tc.opts, tc.policy)
		if err != nil {
			is.Nil(resp)
		}

		return decodeTCR{string(resp), -1, err}
	case appendDecCall, appendDecStrCall:
		orig := slices.Clone(tc.dst)

		var resp []byte
		var err error
		if tc.call == appendDecCall {
			resp, err = AppendDecode(tc.dst, src, tc.opts, tc.policy)
		} else {
			resp, err = AppendDecodeString(tc.dst, tc.src, tc.opts, tc.policy)
		}

		// existing content is never rewritten, even on error
		is.Equal(orig, resp[:len(orig)])
		if err != nil {
			is.Len(resp, len(orig))
			return decodeTCR{"", -1, err}
		}

		return decodeTCR{string(resp), -1, err}
	case unsafeDecCall:
		if tc.expPanic != nil {
			is.PanicsWithValue(tc.expPanic, func() {
				_, _ = UnsafeDecode(tc.dst, src, tc.opts, tc.policy)
			})
			return decodeTCR{}
		}

		r, err := UnsafeDecode(tc.dst, src, tc.opts, tc.policy)

		return decodeTCR{string(tc.dst[:r.Written]), r.Consumed, err}
	case decIntoCall:
		r, err := DecodeInto(tc.dst, src, tc.opts, tc.policy)

		return decodeTCR{string(tc.dst[:r.Written]), r.Consumed, err}
	default:
		panic("misconfigured test case")
	}
}

func checkDecodeTCR(t *testing.T, cfg tbdd.Assert[decodeTC, decodeTCR]) {
	t.Helper()

	is := assert.New(t)

	tc := cfg.TC
	r := cfg.Result

	if tc.expPanic != nil {
		return
	}

	if tc.expKind != unival.Success {
		var uerr *unival.Error
		if is.ErrorAs(r.err, &uerr) {
			is.Equal(tc.expKind, uerr.Kind)
			is.Equal(tc.expPos, uerr.Position)
		}
		return
	}

	is.NoError(r.err)
	is.Equal(tc.expStr, r.str)

	if r.consumed >= 0 {
		exp := tc.expConsumed
		if exp == 0 {
			exp = len(tc.src)
		}
		is.Equal(exp, r.consumed)
	}
}

func decodeTCVariants(t *testing.T, tc decodeTC) iter.Seq[tbdd.TestVariant[decodeTC]] {
	t.Helper()

	return func(yield func(tbdd.TestVariant[decodeTC]) bool) {
		t.Helper()

		if tc.call != decCall || tc.expPanic != nil {
			return
		}

		{
			tc := tc.clone()

			dst := []byte(`prefix:`)
			if tc.expKind == unival.Success {
				tc.expStr = string(dst) + tc.expStr
			}
			tc.dst = dst
			tc.call = appendDecCall

			if !yield(tbdd.TestVariant[decodeTC]{
				TC:          tc,
				Kind:        "decCall2appendDecCall",
				SkipCloneTC: true,
			}) {
				return
			}
		}

		{
			tc := tc.clone()

			tc.call = appendDecStrCall

			if !yield(tbdd.TestVariant[decodeTC]{
				TC:          tc,
				Kind:        "decCall2appendDecStrCall-nil-dst",
				SkipCloneTC: true,
			}) {
				return
			}
		}

		for _, call := range []dCall{unsafeDecCall, decIntoCall} {
			tc := tc.clone()

			tc.dst = make([]byte, DecodedLength(len(tc.src)))
			tc.call = call

			if !yield(tbdd.TestVariant[decodeTC]{
				TC:          tc,
				Kind:        "decCall2cursorCall",
				SkipCloneTC: true,
			}) {
				return
			}
		}
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	tcs := []tbdd.BDDLifecycle[decodeTC, decodeTCR]{
		{
			When: "two full groups",
			TC: decodeTC{
				src:    "AAAAACAB",
				expStr: "\x00\x00\x00\x00\x20\x01",
			},
		},
		{
			When: "padded final group",
			TC: decodeTC{
				src:    "bWlhdXc=",
				expStr: "miauw",
			},
		},
		{
			When: "padded final group under strict",
			TC: decodeTC{
				policy: Strict,
				src:    "bWlhdXc=",
				expStr: "miauw",
			},
		},
		{
			When: "padded final group under stop-before-partial",
			TC: decodeTC{
				policy: StopBeforePartial,
				src:    "Zg==",
				expStr: "f",
			},
		},
		{
			When: "unpadded final group under loose",
			TC: decodeTC{
				opts:   URL,
				src:    "bWlhdXc",
				expStr: "miauw",
			},
		},
		{
			When: "unpadded two character final group under loose",
			TC: decodeTC{
				src:    "Zm9vYg",
				expStr: "foob",
			},
		},
		{
			When: "unpadded final group under stop-before-partial",
			TC: decodeTC{
				policy:      StopBeforePartial,
				src:         "bWlhdXc",
				expStr:      "mia",
				expConsumed: 4,
			},
		},
		{
			When: "single trailing character under stop-before-partial",
			TC: decodeTC{
				policy:      StopBeforePartial,
				src:         "Zm9vY",
				expStr:      "foo",
				expConsumed: 4,
			},
		},
		{
			When: "unpadded final group under strict",
			TC: decodeTC{
				policy:  Strict,
				src:     "bWlhdXc",
				expKind: unival.Base64InputRemainder,
				expPos:  4,
			},
		},
		{
			When: "single trailing character under loose",
			TC: decodeTC{
				src:     "Zm9vY",
				expKind: unival.Base64InputRemainder,
				expPos:  4,
			},
		},
		{
			When: "non-zero unused bits under loose",
			TC: decodeTC{
				src:    "Zh==",
				expStr: "f",
			},
		},
		{
			When: "non-zero unused bits under strict with one pad",
			TC: decodeTC{
				policy:  Strict,
				src:     "Zm9=",
				expKind: unival.Base64InputRemainder,
				expPos:  0,
			},
		},
		{
			When: "non-zero unused bits under strict with two pads",
			TC: decodeTC{
				policy:  Strict,
				src:     "Zm9vZh==",
				expKind: unival.Base64InputRemainder,
				expPos:  4,
			},
		},
		{
			When: "url characters under the standard alphabet",
			TC: decodeTC{
				src:     "-_8=",
				expKind: unival.InvalidBase64Character,
				expPos:  0,
			},
		},
		{
			When: "standard characters under the url alphabet",
			TC: decodeTC{
				opts:    URL,
				src:     "AAAA+/8=",
				expKind: unival.InvalidBase64Character,
				expPos:  4,
			},
		},
		{
			When: "standard characters under the standard alphabet",
			TC: decodeTC{
				src:    "+/8=",
				expStr: "\xfb\xff",
			},
		},
		{
			When: "whitespace inside the input",
			TC: decodeTC{
				src:     "Zm9v Zm9v",
				expKind: unival.InvalidBase64Character,
				expPos:  4,
			},
		},
		{
			When: "invalid character in the partial group dropped by stop-before-partial",
			TC: decodeTC{
				policy:  StopBeforePartial,
				src:     "Zm9vY*",
				expKind: unival.InvalidBase64Character,
				expPos:  5,
			},
		},
		{
			When: "padding in the middle",
			TC: decodeTC{
				src:     "Zg==Zg==",
				expKind: unival.InvalidBase64Character,
				expPos:  2,
			},
		},
		{
			When: "three padding characters",
			TC: decodeTC{
				src:     "Zg===",
				expKind: unival.InvalidBase64Character,
				expPos:  2,
			},
		},
		{
			When: "padding after a full group",
			TC: decodeTC{
				src:     "Zm9v=",
				expKind: unival.InvalidBase64Character,
				expPos:  4,
			},
		},
		{
			When: "one pad completing a three character group",
			TC: decodeTC{
				src:    "Zm9=",
				expStr: "fo",
			},
		},
		{
			When: "one pad where two are needed",
			TC: decodeTC{
				src:     "Zg=",
				expKind: unival.InvalidBase64Character,
				expPos:  2,
			},
		},
		{
			When: "invalid character before bad padding",
			TC: decodeTC{
				src:     "Z*=",
				expKind: unival.InvalidBase64Character,
				expPos:  1,
			},
		},
		{
			When: "only padding",
			TC: decodeTC{
				src:     "==",
				expKind: unival.InvalidBase64Character,
				expPos:  0,
			},
		},
		{
			When: "0 chars",
			TC:   decodeTC{},
		},
		{
			When: "0 chars under strict",
			TC: decodeTC{
				policy: Strict,
			},
		},
		{
			When: "0 chars under stop-before-partial",
			TC: decodeTC{
				policy: StopBeforePartial,
			},
		},
		{
			When: "unsafe-decode destination has no capacity and source is not empty",
			TC: decodeTC{
				call:     unsafeDecCall,
				src:      "Zm9v",
				dst:      []byte{},
				expPanic: "base64: decode destination too short",
			},
		},
		{
			When: "decode-into destination is too small",
			TC: decodeTC{
				call:    decIntoCall,
				src:     "Zm9vYmFy",
				dst:     make([]byte, 5),
				expKind: unival.OutputBufferTooSmall,
				expPos:  0,
			},
		},
		{
			When: "decode-into destination fits the exact size",
			TC: decodeTC{
				call:   decIntoCall,
				src:    "Zm9vYg==",
				dst:    make([]byte, 4),
				expStr: "foob",
			},
		},
	}

	for i, tc := range tcs {
		tc.CloneTC = cloneDecodeTC
		tc.Variants = decodeTCVariants
		tc.Describe = descDecodeTC
		tc.Act = runDecodeTC
		tc.Assert = checkDecodeTCR

		// if no call is specified, use decCall
		if tc.TC.call == 0 {
			tc.TC.call = decCall
		}

		f := tc.NewI(t, i)
		f(t)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	is := assert.New(t)

	rng := rand.New(rand.NewPCG(7, 11))

	for n := range 200 {
		src := make([]byte, n)
		for i := range src {
			src[i] = byte(rng.UintN(256))
		}

		for _, o := range []Options{Default, URL, DefaultNoPadding, URLWithPadding} {
			enc := Encode(src, o)
			is.Len(enc, EncodedLength(n, o))

			dec, err := Decode(enc, o, Loose)
			is.NoError(err)
			is.Equal(len(src), len(dec))
			is.True(slices.Equal(src, dec), "n=%d opts=%s", n, o)

			// canonical padded text also passes strict
			if o.Padded() {
				dec, err = Decode(enc, o, Strict)
				is.NoError(err)
				is.True(slices.Equal(src, dec))
			}

			// padded text has no partial group; unpadded text loses only its tail
			r, err := UnsafeDecode(make([]byte, DecodedLength(len(enc))), enc, o, StopBeforePartial)
			is.NoError(err)
			if o.Padded() {
				is.Equal(n, r.Written)
				is.Equal(len(enc), r.Consumed)
			} else {
				is.Equal(n/3*3, r.Written)
				is.Equal(n/3*4, r.Consumed)
			}
		}
	}
}

func TestAppendDecodeKeepsPrefixOnError(t *testing.T) {
	t.Parallel()

	dst := make([]byte, 3, 64)
	copy(dst, "abc")

	resp, err := AppendDecode(dst, []byte("Zm9vYmFy*A=="), Default, Loose)
	require.ErrorIs(t, err, unival.ErrInvalidBase64Character)
	require.ErrorIs(t, err, &unival.Error{Kind: unival.InvalidBase64Character})

	is := assert.New(t)
	is.Equal("abc", string(resp))

	var uerr *unival.Error
	is.ErrorAs(err, &uerr)
	is.Equal(8, uerr.Position)
}
