// storytell drives the story creation and narration flows from the
// terminal against a running API server. It is the development companion to
// the web client: same generation pipeline, same API calls.
package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lunanest/storytime/internal/client"
	"github.com/lunanest/storytime/internal/generator"
	"github.com/lunanest/storytime/internal/tts"
	"github.com/lunanest/storytime/internal/workflow"
)

var (
	apiURL string
	token  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storytell",
		Short: "Bedtime story CLI",
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envDefault("STORYTIME_API", "http://localhost:3001"), "API base URL or set STORYTIME_API env")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("STORYTIME_TOKEN"), "Bearer token or set STORYTIME_TOKEN env")

	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(narrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func createCmd() *cobra.Command {
	var (
		age       int
		gender    string
		interests []string
		style     string
		lesson    string

		ollamaURL   string
		ollamaModel string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Generate a story and save it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required or set STORYTIME_TOKEN env")
			}

			primary, err := generator.NewOllamaGenerator(ollamaURL, ollamaModel)
			if err != nil {
				return err
			}

			flow := workflow.New(primary, generator.NewFallbackGenerator(), client.New(apiURL, 30*time.Second))

			steps := []error{
				flow.SetAge(age),
				flow.SetGender(gender),
				flow.SetInterests(interests),
				flow.SetStyle(style),
				flow.SetLesson(lesson),
			}
			for _, err := range steps {
				if err != nil {
					return err
				}
			}

			story, err := flow.Finish(cmd.Context(), token)
			if err != nil {
				return err
			}

			fmt.Printf("Saved %s\n\n# %s\n\n%s\n", story.ID, story.Title, story.Story)
			return nil
		},
	}

	cmd.Flags().IntVar(&age, "age", 6, "Child's age (2-12)")
	cmd.Flags().StringVar(&gender, "gender", "", "Child's gender (optional)")
	cmd.Flags().StringSliceVar(&interests, "interests", []string{"adventures"}, "Interests, comma separated")
	cmd.Flags().StringVar(&style, "style", "gentle", "Story style")
	cmd.Flags().StringVar(&lesson, "lesson", "kindness", "Lesson the story should teach")
	cmd.Flags().StringVar(&ollamaURL, "ollama", envDefault("OLLAMA_URL", "http://localhost:11434"), "Ollama endpoint or set OLLAMA_URL env")
	cmd.Flags().StringVar(&ollamaModel, "model", envDefault("OLLAMA_MODEL", "llama3.2"), "Model name or set OLLAMA_MODEL env")

	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required or set STORYTIME_TOKEN env")
			}

			stories, err := client.New(apiURL, 30*time.Second).Stories(cmd.Context(), token)
			if err != nil {
				return err
			}

			for _, story := range stories {
				audio := " "
				if story.HasAudio {
					audio = "♪"
				}
				fmt.Printf("%s %s  %s  %s\n", audio, story.ID, story.CreatedAt.Format("2006-01-02"), story.Title)
			}
			return nil
		},
	}
}

func narrateCmd() *cobra.Command {
	var (
		voice   string
		speed   float64
		outFile string

		ttsURL     string
		ttsTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "narrate <story-id>",
		Short: "Synthesize narration for a story and save it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				return fmt.Errorf("--token is required or set STORYTIME_TOKEN env")
			}
			storyID := args[0]

			api := client.New(apiURL, 30*time.Second)
			story, _, err := api.Story(cmd.Context(), token, storyID)
			if err != nil {
				return err
			}

			synth := tts.NewClient(ttsURL, ttsTimeout)
			audio, err := synth.Synthesize(cmd.Context(), tts.Request{
				Text:  tts.CleanForSpeech(story.Story),
				Voice: voice,
				Speed: speed,
			})
			if err != nil {
				return err
			}

			if outFile != "" {
				if err := os.WriteFile(outFile, audio, 0o644); err != nil {
					return err
				}
				fmt.Printf("Wrote %d bytes to %s\n", len(audio), outFile)
				return nil
			}

			saved, err := api.UploadAudio(cmd.Context(), token, storyID, voice, bytes.NewReader(audio), voice+".wav")
			if err != nil {
				return err
			}
			fmt.Printf("Saved narration %s\n", saved.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&voice, "voice", "amelia", "Narrator voice")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "Narration speed")
	cmd.Flags().StringVar(&outFile, "out", "", "Write the audio to a file instead of uploading it")
	cmd.Flags().StringVar(&ttsURL, "tts", envDefault("TTS_SERVICE_URL", "http://localhost:8000"), "TTS service URL or set TTS_SERVICE_URL env")
	cmd.Flags().DurationVar(&ttsTimeout, "tts-timeout", 60*time.Second, "TTS request timeout")

	return cmd
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
