package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/coffeepad/internal/conversation"
	"github.com/hammamikhairi/coffeepad/internal/cue"
	"github.com/hammamikhairi/coffeepad/internal/domain"
	"github.com/hammamikhairi/coffeepad/internal/gpt"
	"github.com/hammamikhairi/coffeepad/internal/logger"
	"github.com/hammamikhairi/coffeepad/internal/player"
	"github.com/hammamikhairi/coffeepad/internal/voice"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var paused bool

	cmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Play a brew method in the terminal without the full-screen UI",
		Long: "Plays a method step by step, calling out each step. Type play, pause, next, back,\n" +
			"repeat, status, help or quit (one per line). With listening enabled, say the\n" +
			"wake word followed by a command.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMethodID(args[0])
			if err != nil {
				return err
			}
			return runPlay(cmd, ctx, id, !paused)
		},
	}
	cmd.Flags().BoolVar(&paused, "paused", false, "Wait for play instead of starting right away")
	return cmd
}

func runPlay(cmd *cobra.Command, cc *commandContext, id int64, autoplay bool) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	eng, err := cc.engine(ctx)
	if err != nil {
		return err
	}
	method, ctrl, err := eng.NewPlayback(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	log := cc.logger()
	speaker := cc.voiceSpeaker(ctx)

	var notifier domain.Notifier = conversation.NewCLINotifier(log.With("cli"), func(format string, a ...interface{}) {
		fmt.Fprintf(out, format+"\n", a...)
	}, isTerminal(out))
	if speaker != nil {
		notifier = voice.NewSpeakingNotifier(notifier, speaker)
	}

	ear, err := cc.ear(speaker)
	if err != nil {
		return err
	}
	var heard <-chan string
	if ear != nil {
		go ear.Run(ctx)
		heard = ear.C()
	}

	cfg := cc.config
	s := &playSession{
		method:  method,
		ctrl:    ctrl,
		parser:  conversation.NewKeywordParser(log.With("parser")),
		speaker: speaker,
		agent:   cc.agent(),
		log:     log.With("play"),
		out:     out,
		announcer: cue.NewAnnouncer(method.Title, method.Steps, notifier, log.With("cue"),
			cue.WithAlmostDone(cfg.Player.AlmostDoneSeconds),
			cue.WithPauseLines(speaker != nil),
		),
		notifier: notifier,
	}

	ctrl.Start(ctx)
	defer ctrl.Stop()

	return s.run(ctx, readLines(ctx, cmd.InOrStdin()), heard, autoplay)
}

// playSession drives one headless playback. Every announcer call happens
// on the run goroutine.
type playSession struct {
	method    *domain.BrewMethod
	ctrl      *player.Controller
	announcer *cue.Announcer
	notifier  domain.Notifier
	parser    domain.CommandParser
	speaker   *voice.Speaker // nil when speech is off
	agent     *gpt.Agent     // nil when the agent is off
	log       *logger.Logger
	out       io.Writer

	answers chan string
}

func (s *playSession) run(ctx context.Context, typed, heard <-chan string, autoplay bool) error {
	s.answers = make(chan string, 1)

	if autoplay {
		if _, err := s.ctrl.Do(ctx, domain.CommandPlay); err != nil {
			return err
		}
	}

	updates := s.ctrl.Updates()
	for {
		var input string
		select {
		case <-ctx.Done():
			return ctx.Err()

		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			s.announcer.Observe(ctx, snap)
			if snap.Completed() {
				return nil
			}
			if !snap.Playing() && typed == nil && heard == nil {
				if s.stalled(ctx) {
					return nil
				}
			}
			continue

		case answer := <-s.answers:
			s.say(ctx, answer)
			continue

		case line, ok := <-typed:
			if !ok {
				// Input closed; keep playing until the method completes
				// or reaches a step that needs a manual next.
				typed = nil
				if heard == nil && s.stalled(ctx) {
					return nil
				}
				continue
			}
			input = line

		case line := <-heard:
			fmt.Fprintf(s.out, "» %s\n", line)
			input = line
		}

		quit, err := s.handle(ctx, input)
		if err != nil || quit {
			return err
		}
	}
}

// stalled reports whether playback is stopped with no input left to move
// it on.
func (s *playSession) stalled(ctx context.Context) bool {
	snap, err := s.ctrl.Do(ctx, domain.CommandStatus)
	if err != nil || snap.Playing() || snap.Completed() {
		return false
	}
	fmt.Fprintf(s.out, "Input closed; stopping at step %d of %d.\n", snap.StepIndex+1, snap.StepCount)
	return true
}

func (s *playSession) handle(ctx context.Context, input string) (bool, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return false, nil
	}
	cmd, err := s.parser.Parse(ctx, input)
	if err != nil {
		s.log.Error("parsing input: %v", err)
		return false, nil
	}
	s.log.Debug("command: %s (raw=%q)", cmd.Type, cmd.Raw)

	if s.speaker != nil && cmd.Type != domain.CommandUnknown {
		s.speaker.Interrupt()
	}

	switch cmd.Type {
	case domain.CommandQuit:
		return true, nil
	case domain.CommandHelp:
		s.say(ctx, cue.LineHelp())
	case domain.CommandRepeat:
		s.announcer.Repeat(ctx)
	case domain.CommandStatus:
		snap, err := s.ctrl.Do(ctx, domain.CommandStatus)
		if err != nil {
			return false, err
		}
		s.announcer.Status(ctx, snap)
	case domain.CommandPlay, domain.CommandPause, domain.CommandToggle,
		domain.CommandNext, domain.CommandPrevious:
		if _, err := s.ctrl.Do(ctx, cmd.Type); err != nil {
			return false, err
		}
	default:
		s.ask(ctx, cmd.Raw)
	}
	return false, nil
}

// ask hands unrecognised input to the agent as a question. The answer
// comes back on s.answers so the announcer keeps running meanwhile.
func (s *playSession) ask(ctx context.Context, question string) {
	if s.agent == nil {
		s.say(ctx, cue.LineUnknown(question))
		return
	}
	snap, err := s.ctrl.Do(ctx, domain.CommandStatus)
	if err != nil {
		s.say(ctx, cue.LineUnknown(question))
		return
	}
	go func() {
		answer, err := s.agent.AskQuestion(ctx, question, s.method, &snap)
		if err != nil {
			s.log.Error("AI question failed: %v", err)
			answer = cue.LineUnknown(question)
		}
		select {
		case s.answers <- answer:
		case <-ctx.Done():
		}
	}()
}

func (s *playSession) say(ctx context.Context, msg string) {
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.log.Warn("notify: %v", err)
	}
}

// readLines delivers r line by line until EOF or ctx ends.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
