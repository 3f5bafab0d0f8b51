// output_mixer.go - Per-family downmix of raw chip outputs to stereo

package main

// Mix folds one frame of raw outputs into a stereo pair using the family's
// rule. Channel indices wrap modulo len(out) so a short output vector never
// indexes out of range. The halving constants model attenuation on the
// hardware summing buses.
func Mix(family ChipFamily, out []int32) (left, right int32) {
	n := len(out)
	if n == 0 {
		return 0, 0
	}
	ch := func(i int) int32 { return out[i%n] }

	switch family.MixRule() {
	case MIX_OPN_SSG:
		v := ch(0) + (ch(1)+ch(2)+ch(3))/2
		return v, v
	case MIX_ADPCM_DUAL:
		return ch(0) + ch(2)/2, ch(1) + ch(2)/2
	case MIX_SSG:
		v := (ch(0) + ch(1) + ch(2)) / 2
		return v, v
	case MIX_OPL4_PCM:
		return ch(4), ch(5)
	case MIX_OPLL:
		v := ch(0) + ch(1)
		return v, v
	case MIX_MONO_HALVED:
		v := ch(0) / 2
		return v, v
	default:
		return ch(0), ch(1)
	}
}

// MixInto accumulates one mixed frame at buf[pos] and buf[pos+1].
func MixInto(family ChipFamily, out []int32, buf []int32, pos int) {
	l, r := Mix(family, out)
	buf[pos] += l
	buf[pos+1] += r
}
