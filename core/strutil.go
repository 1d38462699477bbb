package core

// Itoa converts an integer to a string without the fmt package, which
// is too heavy for the device builds. Display code and host logging
// share it.
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}
	negative := n < 0
	if negative {
		n = -n
	}

	digits := 0
	for temp := n; temp > 0; temp /= 10 {
		digits++
	}
	if negative {
		digits++
	}

	buf := make([]byte, digits)
	pos := digits - 1
	for n > 0 {
		buf[pos] = byte('0' + n%10)
		n /= 10
		pos--
	}
	if negative {
		buf[0] = '-'
	}
	return string(buf)
}

// Utoa converts an unsigned integer to a string.
func Utoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	digits := 0
	for temp := n; temp > 0; temp /= 10 {
		digits++
	}
	buf := make([]byte, digits)
	pos := digits - 1
	for n > 0 {
		buf[pos] = byte('0' + n%10)
		n /= 10
		pos--
	}
	return string(buf)
}

// FormatDeci renders a deci-unit value as "x.y", e.g. 367 -> "36.7".
// The display task uses it for speeds and voltages.
func FormatDeci(v uint16) string {
	return Utoa(uint32(v)/10) + "." + Utoa(uint32(v)%10)
}
