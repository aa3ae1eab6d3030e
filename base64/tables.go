package base64

const (
	b64Invalid = 0xFF
	b64Pad     = '='
)

//
// one encode and one decode table per alphabet, indexed by IsURL
//

var encodeTabs, decodeTabs = func() ([2][64]byte, [2][256]byte) {
	const (
		b64Std = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
		b64URL = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	)

	var enc [2][64]byte
	var dec [2][256]byte

	for a, chars := range [2]string{b64Std, b64URL} {
		for i := range dec[a] {
			dec[a][i] = b64Invalid
		}

		for i := range len(chars) {
			v := chars[i]

			enc[a][i] = v
			dec[a][v] = byte(i)
		}
	}

	return enc, dec
}()

func tables(o Options) (*[64]byte, *[256]byte) {
	if o.IsURL() {
		return &encodeTabs[1], &decodeTabs[1]
	}

	return &encodeTabs[0], &decodeTabs[0]
}
