package png

import (
	"github.com/cam-per/pngcore/codec/inflate"
	"github.com/cam-per/pngcore/utils"
)

// maxTextLength caps inflated zTXt and iTXt values.
const maxTextLength = 1 << 24

func (decoder *Decoder) parseTEXT(payload []byte) {
	key, value, ok := utils.SplitCString(payload)
	if !ok {
		Logger().Debug().Msg("png: tEXt without separator, ignoring")
		return
	}
	// the value runs to the end of the chunk, NULs included
	decoder.text[key.Latin1()] = utils.Latin1(value)
}

func (decoder *Decoder) parseZTXT(payload []byte) {
	key, rest, ok := utils.SplitCString(payload)
	if !ok || len(rest) < 1 {
		Logger().Debug().Msg("png: malformed zTXt, ignoring")
		return
	}
	if rest[0] != 0 {
		Logger().Debug().Uint8("method", rest[0]).Msg("png: unknown zTXt compression, ignoring")
		return
	}
	value, err := inflate.DecodeLimit(rest[1:], maxTextLength)
	if err != nil {
		Logger().Warn().Err(err).Str("key", key.Latin1()).Msg("png: bad zTXt stream")
		return
	}
	decoder.text[key.Latin1()] = utils.Latin1(value)
}

func (decoder *Decoder) parseITXT(payload []byte) {
	key, rest, ok := utils.SplitCString(payload)
	if !ok || len(rest) < 2 {
		Logger().Debug().Msg("png: malformed iTXt, ignoring")
		return
	}
	compressed, method := rest[0], rest[1]
	// language tag, then translated keyword
	_, rest, ok = utils.SplitCString(rest[2:])
	if ok {
		_, rest, ok = utils.SplitCString(rest)
	}
	if !ok {
		Logger().Debug().Msg("png: malformed iTXt, ignoring")
		return
	}

	value := rest
	if compressed != 0 {
		if method != 0 {
			Logger().Debug().Uint8("method", method).Msg("png: unknown iTXt compression, ignoring")
			return
		}
		var err error
		value, err = inflate.DecodeLimit(rest, maxTextLength)
		if err != nil {
			Logger().Warn().Err(err).Str("key", key.Latin1()).Msg("png: bad iTXt stream")
			return
		}
	}
	decoder.text[key.Latin1()] = string(value)
}
