package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/vocabmaster/internal/session"
	"github.com/example/vocabmaster/internal/spaced_repetition"
)

const notEnoughWords = "Not enough words yet."

var quickRound bool

func roundMode() session.Mode {
	if quickRound {
		return session.Quick
	}
	return session.All
}

// prompter reads answers line by line
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewScanner(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

// ask prints the question and returns the answer; ok is false at end of input
func (p *prompter) ask(format string, args ...any) (string, bool) {
	fmt.Fprintf(p.out, format, args...)
	if !p.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Learn new words, ten at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		l := session.NewLearn(a.coordinator, session.DefaultConfig())
		p := newPrompter(cmd)
		for !l.NotEnoughWords() {
			item, _ := l.Current()
			pos, size := l.Position()
			fmt.Fprintf(p.out, "\n[%d/%d] %s (%s) UK /%s/ US /%s/\n", pos, size, item.Word, item.Type, item.IpaUK, item.IpaUS)
			fmt.Fprintf(p.out, "  %s\n  %s\n", item.Example1, item.Example1Meaning)

			answer, ok := p.ask("  [a]gain  [g]ood  [k]now it  [m]eaning  [q]uit: ")
			if !ok || answer == "q" {
				return nil
			}
			switch answer {
			case "m":
				fmt.Fprintf(p.out, "  = %s\n", item.Meaning)
			case "a":
				_, err = l.Answer(ctx, spaced_repetition.Again)
			case "g":
				_, err = l.Answer(ctx, spaced_repetition.Good)
			case "k":
				_, err = l.AlreadyKnown(ctx)
			}
			if err != nil {
				return err
			}
		}
		fmt.Fprintln(p.out, notEnoughWords)
		return nil
	},
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review the words due today",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		r := session.NewReview(a.coordinator, roundMode(), session.DefaultConfig())
		p := newPrompter(cmd)
		if r.NotEnoughWords() {
			fmt.Fprintln(p.out, "Nothing to review today.")
			return nil
		}

		for !r.Done() {
			item, _ := r.Current()
			typed, ok := p.ask("\n%s (%s)\n  Type the word: ", item.Meaning, item.Type)
			if !ok {
				return nil
			}
			passed, err := r.Check(typed)
			if err != nil {
				return err
			}
			if passed {
				fmt.Fprintln(p.out, "  Correct!")
			} else {
				fmt.Fprintf(p.out, "  The word was %q\n", item.Word)
			}

			action, err := chooseGrade(p, r.AllowedGrades())
			if err != nil {
				return err
			}
			state, err := r.Grade(ctx, action)
			if err != nil {
				return err
			}
			if state.NextReviewDate != nil {
				fmt.Fprintf(p.out, "  Next review on %s\n", state.NextReviewDate)
			} else {
				fmt.Fprintln(p.out, "  Mastered!")
			}
		}
		fmt.Fprintf(p.out, "\nDone. %d correct.\n", r.Correct())
		return nil
	},
}

func chooseGrade(p *prompter, allowed []spaced_repetition.ReviewAction) (spaced_repetition.ReviewAction, error) {
	if len(allowed) == 1 {
		return allowed[0], nil
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = a.String()
	}
	for {
		answer, ok := p.ask("  Grade (%s): ", strings.Join(names, "/"))
		if !ok {
			return spaced_repetition.Again, io.EOF
		}
		action, err := spaced_repetition.ParseReviewAction(answer)
		if err == nil {
			return action, nil
		}
		fmt.Fprintln(p.out, " ", err)
	}
}

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Multiple choice quiz over the words you know",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		q := session.NewQuiz(a.coordinator, session.DefaultConfig(), nil)
		p := newPrompter(cmd)
		if q.NotEnoughWords() {
			fmt.Fprintln(p.out, notEnoughWords, "Learn at least 4 words first.")
			return nil
		}

		for {
			question, ok := q.Current()
			if !ok {
				break
			}
			fmt.Fprintf(p.out, "\n%s\n", question.Item.Word)
			for i, option := range question.Options {
				fmt.Fprintf(p.out, "  %d) %s\n", i+1, option)
			}
			answer, ok := p.ask("  Answer: ")
			if !ok {
				break
			}
			n, err := strconv.Atoi(answer)
			if err != nil {
				continue
			}
			correct, err := q.Answer(n - 1)
			if err != nil {
				fmt.Fprintln(p.out, " ", err)
				continue
			}
			if !correct {
				fmt.Fprintf(p.out, "  Wrong, it means %q\n", question.Options[question.CorrectIndex])
			}
		}

		result, err := q.Finish(ctx)
		fmt.Fprintf(p.out, "\nScore: %d/%d\n", result.Correct, result.Total)
		return err
	},
}

// espeakSpeaker speaks through the espeak-ng command
type espeakSpeaker struct {
	bin string
}

func (s espeakSpeaker) Speak(ctx context.Context, u session.Utterance) error {
	wpm := strconv.Itoa(int(175 * u.Rate))
	return exec.CommandContext(ctx, s.bin, "-v", u.Lang, "-s", wpm, u.Text).Run()
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Dictation: type the word you hear",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		bin, err := exec.LookPath("espeak-ng")
		if err != nil {
			return fmt.Errorf("listening needs espeak-ng on PATH: %w", err)
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		l := session.NewListening(a.coordinator, roundMode(), session.DefaultConfig(), a.settings.Current(), espeakSpeaker{bin: bin}, nil)
		p := newPrompter(cmd)
		if l.NotEnoughWords() {
			fmt.Fprintln(p.out, notEnoughWords)
			return nil
		}

		for !l.Done() {
			item, _ := l.Current()
			if _, err := l.Prompt(ctx); err != nil {
				return err
			}
			typed, ok := p.ask("\n  What did you hear? ")
			if !ok {
				break
			}
			correct, _, err := l.Answer(ctx, typed)
			if err != nil {
				return err
			}
			if correct {
				fmt.Fprintln(p.out, "  Correct!")
			} else {
				fmt.Fprintf(p.out, "  It was %q (%s)\n", item.Word, item.Meaning)
			}
		}

		correct, answered := l.Score()
		fmt.Fprintf(p.out, "\nScore: %d/%d\n", correct, answered)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{reviewCmd, listenCmd} {
		c.Flags().BoolVar(&quickRound, "quick", false, "limit the round to 10 words")
	}
}
