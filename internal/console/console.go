// Package console drives the registration wizard from a line based terminal.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"github.com/Geniuskaa/hackathon_registration/internal/registration"
	"github.com/Geniuskaa/hackathon_registration/internal/wizard"
	"io"
	"strconv"
	"strings"
)

const (
	CMD_BACK  = "/back"
	CMD_QUIT  = "/quit"
	CMD_CLEAR = "-"
)

var (
	ErrAborted = errors.New("registration aborted")

	errBack = errors.New("back")
)

type Console struct {
	in     *bufio.Scanner
	out    io.Writer
	w      *wizard.Wizard
	roster []registration.Participant
}

// New wraps a wizard. Roster entries, if any, pre-fill the participant slots
// in order.
func New(in io.Reader, out io.Writer, w *wizard.Wizard, roster []registration.Participant) *Console {
	return &Console{in: bufio.NewScanner(in), out: out, w: w, roster: roster}
}

// Run walks the wizard until one registration is accepted. It returns
// ErrAborted when the user quits or input ends first.
func (c *Console) Run(ctx context.Context) (wizard.Receipt, error) {
	for {
		if err := ctx.Err(); err != nil {
			return wizard.Receipt{}, err
		}

		var (
			receipt wizard.Receipt
			done    bool
			err     error
		)
		switch c.w.Step() {
		case wizard.CountSelection:
			err = c.selectCount()
		case wizard.Details:
			err = c.fillDetails()
		case wizard.Review:
			receipt, done, err = c.review(ctx)
		default:
			err = fmt.Errorf("Run failed: unexpected step %s", c.w.Step())
		}

		if done {
			return receipt, nil
		}
		if errors.Is(err, errBack) {
			if err := c.w.Back(); err != nil {
				fmt.Fprintf(c.out, "%v\n", err)
			}
			continue
		}
		if err != nil {
			return wizard.Receipt{}, err
		}
	}
}

func (c *Console) selectCount() error {
	def := ""
	switch {
	case c.w.Count() > 0:
		def = strconv.Itoa(c.w.Count())
	case len(c.roster) > 0:
		def = strconv.Itoa(min(len(c.roster), registration.MAX_TEAM_SIZE))
	}

	for {
		line, err := c.ask(fmt.Sprintf("Team size (%d-%d)", registration.MIN_TEAM_SIZE, registration.MAX_TEAM_SIZE), def)
		if errors.Is(err, errBack) {
			fmt.Fprintln(c.out, "Already at the first step.")
			continue
		}
		if err != nil {
			return err
		}

		n, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintln(c.out, registration.ErrInvalidCount)
			continue
		}
		if err := c.w.SelectCount(n); err != nil {
			fmt.Fprintln(c.out, registration.ErrInvalidCount)
			continue
		}

		c.prefill()
		return nil
	}
}

func (c *Console) prefill() {
	for i, p := range c.roster {
		p := p
		if i > 0 {
			p.PrimaryPhone, p.SecondaryPhone = "", ""
		}
		if err := c.w.Edit(i, func(slot *registration.Participant) { *slot = p }); err != nil {
			return
		}
	}
}

func (c *Console) fillDetails() error {
	for i, p := range c.w.Participants() {
		fmt.Fprintf(c.out, "\n%s\n", registration.Title(i))
		for _, fe := range c.w.Errors().For(i) {
			fmt.Fprintf(c.out, "  ! %s\n", fe.Error())
		}

		if err := c.fillParticipant(i, p); err != nil {
			return err
		}
	}

	err := c.w.Next()
	var errs registration.FieldErrors
	if errors.As(err, &errs) {
		fmt.Fprintln(c.out, "\nPlease fix the following:")
		for _, fe := range errs {
			fmt.Fprintf(c.out, "  %s: %s\n", fe.Path(), fe.Message)
		}
		return nil
	}
	return err
}

func (c *Console) fillParticipant(i int, p registration.Participant) error {
	name, err := c.ask("Full name", p.FullName)
	if err != nil {
		return err
	}
	p.FullName = name

	for {
		line, err := c.ask("Age", strconv.Itoa(p.Age))
		if err != nil {
			return err
		}
		age, convErr := strconv.Atoi(line)
		if convErr != nil {
			fmt.Fprintln(c.out, "Age must be a number.")
			continue
		}
		p.Age = age
		break
	}

	for {
		line, err := c.ask("Gender (Male/Female/Other)", string(p.Gender))
		if err != nil {
			return err
		}
		g, parseErr := registration.ParseGender(line)
		if parseErr != nil {
			fmt.Fprintln(c.out, "Choose Male, Female or Other.")
			continue
		}
		p.Gender = g
		break
	}

	if i == 0 {
		if p.PrimaryPhone, err = c.ask("Primary phone", p.PrimaryPhone); err != nil {
			return err
		}
		if p.SecondaryPhone, err = c.ask("Secondary phone (optional, - to clear)", p.SecondaryPhone); err != nil {
			return err
		}
	}

	return c.w.Edit(i, func(slot *registration.Participant) { *slot = p })
}

func (c *Console) review(ctx context.Context) (wizard.Receipt, bool, error) {
	fmt.Fprintln(c.out, "\nReview your team")
	for i, p := range c.w.Participants() {
		fmt.Fprintf(c.out, "  %d. %s (%s) %s, %d, %s", i+1, p.FullName, registration.RoleFor(i), p.Gender, p.Age, p.PrimaryPhone)
		if p.SecondaryPhone != "" {
			fmt.Fprintf(c.out, " / %s", p.SecondaryPhone)
		}
		fmt.Fprintln(c.out)
	}

	line, err := c.ask("Submit? (y to submit)", "y")
	if err != nil {
		return wizard.Receipt{}, false, err
	}
	if !strings.EqualFold(line, "y") {
		return wizard.Receipt{}, false, errBack
	}

	fmt.Fprintln(c.out, "Submitting...")
	receipt, err := c.w.Submit(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Submission failed: %s\n", c.w.LastError().Message)
		return wizard.Receipt{}, false, nil
	}

	if receipt.Confirmed() {
		fmt.Fprintf(c.out, "Registration complete. Your team id is %s\n", receipt.TeamID)
	} else {
		fmt.Fprintf(c.out, "Registration sent. Your team id is %s\n", receipt.TeamID)
		fmt.Fprintln(c.out, "The server did not confirm the submission, keep your team id and check with the organizers.")
	}
	return receipt, true, nil
}

// ask prints a prompt and returns the trimmed answer, def for an empty line
// and an empty string for CMD_CLEAR.
func (c *Console) ask(prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(c.out, "%s: ", prompt)
	}

	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("ask failed: %w", err)
		}
		return "", ErrAborted
	}

	line := strings.TrimSpace(c.in.Text())
	switch line {
	case CMD_QUIT:
		return "", ErrAborted
	case CMD_BACK:
		return "", errBack
	case CMD_CLEAR:
		return "", nil
	case "":
		return def, nil
	}
	return line, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
