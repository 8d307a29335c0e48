package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/japanesestudent/progress-service/internal/auth"
	"github.com/japanesestudent/progress-service/internal/logger"
	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/japanesestudent/progress-service/internal/progressclient"
	"github.com/japanesestudent/progress-service/internal/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	server    string
	token     string
	jwtSecret string
	viewerID  int
	courseID  int
	lessonID  int
	videoID   string
	duration  float64
	start     float64
	speed     float64
	interval  time.Duration
	examTitle string
	logLevel  string
}

func newRootCommand() *cobra.Command {
	opts := options{}

	rootCmd := &cobra.Command{
		Use:           "watchsim",
		Short:         "Simulate a viewer watching a lesson video",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.server, "server", "http://localhost:8080", "Progress service base URL")
	flags.StringVar(&opts.token, "token", os.Getenv("WATCHSIM_TOKEN"), "Access token of the viewer")
	flags.StringVar(&opts.jwtSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Sign a viewer token locally when --token is empty")
	flags.IntVar(&opts.viewerID, "viewer", 1, "Viewer ID used for a locally signed token")
	flags.IntVar(&opts.courseID, "course", 1, "Course ID")
	flags.IntVar(&opts.lessonID, "lesson", 1, "Lesson ID")
	flags.StringVar(&opts.videoID, "video", "dQw4w9WgXcQ", "Video ID")
	flags.Float64Var(&opts.duration, "duration", 600, "Video length in seconds")
	flags.Float64Var(&opts.start, "start", 0, "Start position in seconds")
	flags.Float64Var(&opts.speed, "speed", 20, "Playback speed multiplier")
	flags.DurationVar(&opts.interval, "interval", tracker.DefaultInterval, "Sampling interval")
	flags.StringVar(&opts.examTitle, "exam", "", "Check the exam gate for this exam title after playback")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	return rootCmd
}

func run(ctx context.Context, w io.Writer, opts options) error {
	if opts.duration <= 0 {
		return errors.New("--duration must be positive")
	}
	if opts.speed <= 0 {
		return errors.New("--speed must be positive")
	}
	if opts.interval <= 0 {
		return errors.New("--interval must be positive")
	}

	if err := logger.Init(opts.logLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	// tracker callbacks print from report goroutines
	out := &syncWriter{w: w}

	token, err := resolveToken(opts)
	if err != nil {
		return err
	}
	// a supplied token carries its own viewer; the server fills it in
	viewerID := opts.viewerID
	if opts.token != "" {
		viewerID = 0
	}

	sessionID := uuid.NewString()
	log := logger.Logger.With(zap.String("session_id", sessionID))
	client := progressclient.New(opts.server, token, &http.Client{Timeout: 10 * time.Second}, log)

	var saved atomic.Int32
	updates := make(chan tracker.Sample, 16)
	session := tracker.Session{ViewerID: viewerID, CourseID: opts.courseID, LessonID: opts.lessonID, VideoID: opts.videoID}
	tr := tracker.New(session, progressclient.NewReporter(client), tracker.Config{
		Interval: opts.interval,
		Logger:   log,
		OnProgressUpdate: func(s tracker.Sample) {
			saved.Add(1)
			fmt.Fprintf(out, "saved   %6.1fs / %.0fs  %5.1f%%  %s\n", s.CurrentTime, s.Duration, s.Percent, s.Event)
			select {
			case updates <- s:
			default:
			}
		},
		OnVideoCompleted: func(s tracker.Sample) {
			fmt.Fprintf(out, "reached %5.1f%%, video counts as watched for the exam\n", s.Percent)
		},
	})
	defer tr.Close()

	fmt.Fprintf(out, "session %s: lesson %d of course %d, %.0fs at %gx\n", sessionID, opts.lessonID, opts.courseID, opts.duration, opts.speed)

	player := newSimulatedPlayer(opts.duration, opts.start, opts.speed)
	tr.Ready(player)
	player.play()
	tr.StateChange(tracker.PlayerPlaying)

	if err := waitForEnd(ctx, player, updates, opts.interval); err != nil {
		return err
	}
	player.pause()
	tr.StateChange(tracker.PlayerEnded)

	if saved.Load() == 0 {
		return errors.New("no progress report was accepted by the server")
	}

	summary := client.CourseProgressOrZero(ctx, viewerID, opts.courseID)
	fmt.Fprintf(out, "course  %d/%d lessons completed, %.1f%% overall\n", summary.CompletedLessons, summary.TotalLessons, summary.OverallProgress)

	if opts.examTitle != "" {
		decision, err := client.CheckExamGate(ctx, models.ExamGateRequest{
			CourseID: opts.courseID,
			LessonID: opts.lessonID,
			Exam:     models.ExamInfo{Title: opts.examTitle},
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "exam    %s\n", decision.Outcome)
		if decision.Confirmation != nil {
			fmt.Fprintf(out, "        %s\n", decision.Confirmation.Message)
		}
	}

	return nil
}

// waitForEnd blocks until the player reached the end and the final sample was saved
func waitForEnd(ctx context.Context, player *simulatedPlayer, updates <-chan tracker.Sample, interval time.Duration) error {
	poll := time.NewTicker(interval / 2)
	defer poll.Stop()

	var deadline <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-updates:
			if s.Percent >= 100 {
				return nil
			}
		case <-poll.C:
			if deadline == nil && player.ended() {
				// the last report may fail; do not wait for it forever
				deadline = time.After(2*interval + 5*time.Second)
			}
		case <-deadline:
			return nil
		}
	}
}

func resolveToken(opts options) (string, error) {
	if opts.token != "" {
		return opts.token, nil
	}
	if opts.jwtSecret == "" {
		return "", errors.New("either --token or --jwt-secret is required")
	}
	token, err := auth.NewTokenGenerator(opts.jwtSecret, time.Hour).GenerateAccessToken(opts.viewerID, auth.RoleViewer)
	if err != nil {
		return "", fmt.Errorf("sign viewer token: %w", err)
	}
	return token, nil
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
