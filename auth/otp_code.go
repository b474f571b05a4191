package auth

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

// OtpCode is the six-slot code entry form. Every slot is either empty or a single digit.
type OtpCode struct {
	digits [CodeLength]string
	focus  int
}

// Enter puts value in slot i. An empty value clears the slot; anything but one digit is
// rejected and clears the slot. A digit below the last slot moves focus to the next one.
func (c *OtpCode) Enter(i int, value string) error {
	if i < 0 || i >= CodeLength {
		return &ValidationError{Field: "code", Message: "position out of range"}
	}
	c.focus = i
	if value == "" {
		c.digits[i] = ""
		return nil
	}
	if err := NewValidator().ValidateDigit(value); err != nil {
		c.digits[i] = ""
		return err
	}
	c.digits[i] = value
	if i < CodeLength-1 {
		c.focus = i + 1
	}
	return nil
}

// Backspace clears slot i when it holds a digit, otherwise moves focus back one slot.
func (c *OtpCode) Backspace(i int) {
	if i < 0 || i >= CodeLength {
		return
	}
	if c.digits[i] != "" {
		c.digits[i] = ""
		c.focus = i
		return
	}
	if i > 0 {
		c.focus = i - 1
	}
}

// Paste fills every slot from exactly six digits and focuses the last slot.
// Any other text leaves the form untouched.
func (c *OtpCode) Paste(text string) bool {
	if NewValidator().ValidateCode(text) != nil {
		return false
	}
	for i := 0; i < CodeLength; i++ {
		c.digits[i] = text[i : i+1]
	}
	c.focus = CodeLength - 1
	return true
}

func (c *OtpCode) Reset() {
	c.digits = [CodeLength]string{}
	c.focus = 0
}

// SetFocus moves focus, clamped to the form.
func (c *OtpCode) SetFocus(i int) {
	c.focus = min(max(i, 0), CodeLength-1)
}

func (c *OtpCode) Focus() int {
	return c.focus
}

func (c *OtpCode) Digit(i int) string {
	if i < 0 || i >= CodeLength {
		return ""
	}
	return c.digits[i]
}

func (c *OtpCode) Digits() [CodeLength]string {
	return c.digits
}

func (c *OtpCode) Complete() bool {
	for _, d := range c.digits {
		if d == "" {
			return false
		}
	}
	return true
}

// Code concatenates the slots in positional order 0..5.
func (c *OtpCode) Code() string {
	code := make([]byte, 0, CodeLength)
	for i := 0; i < CodeLength; i++ {
		code = append(code, c.digits[i]...)
	}
	return string(code)
}
