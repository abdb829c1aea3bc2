package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/expense-tracker/internal/entity/ledger"
	"max.ks1230/expense-tracker/internal/model/validation"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewPrompter(strings.NewReader(input), out), out
}

func Test_Int(t *testing.T) {
	p, _ := newTestPrompter("5\n")
	v, err := p.Int("Enter a number: ", validation.Between(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func Test_Int_ExitCommands(t *testing.T) {
	for _, input := range []string{"exit\n", "quit\n", " QUIT \n"} {
		p, _ := newTestPrompter(input)
		_, err := p.Int("Enter a number: ", validation.Unbounded[int]())
		assert.ErrorIs(t, err, ErrExit, input)
	}
}

func Test_Int_RepromptsOnGarbage(t *testing.T) {
	p, out := newTestPrompter("abc\n5.5\n7\n")
	v, err := p.Int("Enter a number: ", validation.Unbounded[int]())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, strings.Count(out.String(),
		"Invalid input. Please enter a valid number (integer) or exit / quit to quit."))
}

func Test_Int_OutOfRange(t *testing.T) {
	p, out := newTestPrompter("0\n11\n3\n")
	v, err := p.Int("Enter a number: ", validation.Between(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, strings.Count(out.String(), "Please enter a value between 1 and 10."))
}

func Test_Int_OnlyMin(t *testing.T) {
	p, out := newTestPrompter("0\n3\n")
	_, err := p.Int("Enter a number: ", validation.AtLeast(1))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Please enter a value greater than or equal to 1.")
}

func Test_Int_EOF(t *testing.T) {
	p, out := newTestPrompter("")
	_, err := p.Int("Enter a number: ", validation.Unbounded[int]())
	assert.ErrorIs(t, err, ErrExit)
	assert.Contains(t, out.String(), "\nInput interrupted. Please try again or type exit / quit to quit.")
}

func Test_Int_LastLineWithoutNewline(t *testing.T) {
	p, _ := newTestPrompter("42")
	v, err := p.Int("Enter a number: ", validation.Unbounded[int]())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func Test_Float(t *testing.T) {
	p, out := newTestPrompter("NaN\nabc\n150\n50.5\n")
	v, err := p.Float("Enter a float: ", validation.Between(0.0, 100.0))
	require.NoError(t, err)
	assert.Equal(t, 50.5, v)
	assert.Equal(t, 2, strings.Count(out.String(),
		"Invalid input. Please enter a valid number (float) or exit / quit to quit."))
	assert.Contains(t, out.String(), "Please enter a value between 0 and 100.")
}

func Test_String(t *testing.T) {
	p, out := newTestPrompter("\nabcd\n  abc  \n")
	v, err := p.String("Name: ", validation.Between(1, 3))
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
	assert.Equal(t, 2, strings.Count(out.String(), "Please enter a string with a length between 1 and 3."))
}

func Test_String_Unbounded(t *testing.T) {
	p, _ := newTestPrompter("\n")
	v, err := p.String("Anything: ", validation.Unbounded[int]())
	require.NoError(t, err)
	assert.Empty(t, v)
}

func Test_Date(t *testing.T) {
	p, out := newTestPrompter("05.01.2024\n2024-01-05\n")
	d, err := p.Date("Date: ")
	require.NoError(t, err)
	assert.Equal(t, ledger.NewDate(2024, time.January, 5), d)
	assert.Contains(t, out.String(), "Invalid date format. Please use YYYY-MM-DD or exit / quit to quit.")
}

func Test_OptionalDate(t *testing.T) {
	p, _ := newTestPrompter("\n")
	d, err := p.OptionalDate("Date: ")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	p, out := newTestPrompter("\n2024-02-30\n2024-02-29\n")
	d, err = p.Date("Date: ")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid date format."))
}

func Test_Choice(t *testing.T) {
	p, out := newTestPrompter("4\n2\n")
	v, err := p.Choice("Type: ", []string{"EXPENSE", "INCOME", "TRANSFER"})
	require.NoError(t, err)
	assert.Equal(t, "INCOME", v)
	assert.Contains(t, out.String(), "3. TRANSFER")
}
