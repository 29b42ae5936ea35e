package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/luminara-app/backend/coord"
	"github.com/luminara-app/backend/solve"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "luminara",
		Short: "Client CLI for the luminara problem solving service",
	}

	var server string
	var token string
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "http://localhost:8080", "Server base URL")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "Bearer token from the login command")

	var inputType string
	var title string
	var description string
	var text string
	var imagePath string
	var voiceUrl string

	var submitCmd = &cobra.Command{
		Use:   "submit",
		Short: "Submit a problem and wait for its solution",
		Run: func(cmd *cobra.Command, args []string) {
			err := submitProblem(server, token, inputType, title, description, text, imagePath, voiceUrl)
			if err != nil {
				log.Fatal(err)
			}
		},
	}
	submitCmd.Flags().StringVar(&inputType, "type", "text", "Input type [text, image, voice]")
	submitCmd.Flags().StringVar(&title, "title", "", "Problem title (required)")
	submitCmd.Flags().StringVar(&description, "description", "", "Optional context for the solver")
	submitCmd.Flags().StringVar(&text, "text", "", "Problem statement for text submissions")
	submitCmd.Flags().StringVar(&imagePath, "image", "", "Path to an image for image submissions")
	submitCmd.Flags().StringVar(&voiceUrl, "voice-url", "", "URL of an uploaded voice clip for voice submissions")
	submitCmd.MarkFlagRequired("title")

	var statusCmd = &cobra.Command{
		Use:   "status <problem-uuid>",
		Short: "Fetch the current state of a submission",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := fetchStatus(server, token, args[0])
			if err != nil {
				log.Fatal(err)
			}
		},
	}

	var email string
	var password string
	var loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token for later calls",
		Run: func(cmd *cobra.Command, args []string) {
			err := login(server, email, password)
			if err != nil {
				log.Fatal(err)
			}
		},
	}
	loginCmd.Flags().StringVar(&email, "email", "", "Account email (required)")
	loginCmd.Flags().StringVar(&password, "password", "", "Account password (required)")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(loginCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func submitProblem(server, token, inputType, title, description, text, imagePath, voiceUrl string) error {
	gw := coord.NewHTTPGateway(server)
	if token != "" {
		gw = gw.WithToken(token)
	}

	params := solve.SubmitParams{
		InputType:   inputType,
		Title:       title,
		Description: description,
		TextContent: text,
		VoiceUrl:    voiceUrl,
	}
	if imagePath != "" {
		raw, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("error reading image: %w", err)
		}
		params.ImageData = base64.StdEncoding.EncodeToString(raw)
	}

	c := coord.New(gw.Submit, gw.Fetch)
	defer c.Close()

	ctx := context.Background()
	res, err := c.Submit(ctx, params)
	if err != nil {
		return err
	}
	fmt.Printf("problem %s accepted, status: %s\n", res.ProblemID, res.Status)

	if res.Status.IsTerminal() {
		printResult(res)
		return nil
	}

	fmt.Println("waiting for the solution...")
	subm, err := c.Wait(ctx)
	if err != nil {
		return err
	}
	printSubm(subm)
	return nil
}

func fetchStatus(server, token, id string) error {
	problemID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid problem uuid: %w", err)
	}

	gw := coord.NewHTTPGateway(server)
	if token != "" {
		gw = gw.WithToken(token)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	subm, err := gw.Fetch(ctx, problemID, nil)
	if err != nil {
		return err
	}
	printSubm(subm)
	return nil
}

// login calls the auth endpoint directly; the coordinator gateway only
// speaks the problem endpoints.
func login(server, email, password string) error {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	url := strings.TrimRight(server, "/") + "/auth/login"
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Status string `json:"status"`
		Data   struct {
			Token     string `json:"token"`
			OwnerUUID string `json:"owner_uuid"`
			SessionID string `json:"session_id"`
		} `json:"data"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding login response: %w", err)
	}
	if envelope.Status != "success" {
		return fmt.Errorf("login failed: %s", envelope.Message)
	}

	fmt.Printf("owner:   %s\n", envelope.Data.OwnerUUID)
	fmt.Printf("session: %s\n", envelope.Data.SessionID)
	fmt.Printf("token:   %s\n", envelope.Data.Token)
	return nil
}

func printResult(res *solve.SubmitResult) {
	fmt.Printf("status:     %s\n", res.Status)
	if res.Subject != "" {
		fmt.Printf("subject:    %s\n", res.Subject)
	}
	if res.Difficulty != "" {
		fmt.Printf("difficulty: %s\n", res.Difficulty)
	}
	if len(res.Tags) > 0 {
		fmt.Printf("tags:       %s\n", strings.Join(res.Tags, ", "))
	}
	if res.ErrorMessage != "" {
		fmt.Printf("error:      %s\n", res.ErrorMessage)
	}
	if res.Solution != "" {
		fmt.Printf("\n%s\n", res.Solution)
	}
}

func printSubm(subm *solve.Submission) {
	if subm == nil {
		fmt.Println("no submission state available")
		return
	}
	fmt.Printf("problem:    %s\n", subm.ID)
	fmt.Printf("status:     %s\n", subm.Status)
	if subm.Topic != "" {
		fmt.Printf("subject:    %s\n", subm.Topic)
	}
	if subm.Difficulty != "" {
		fmt.Printf("difficulty: %s\n", subm.Difficulty)
	}
	if len(subm.Tags) > 0 {
		fmt.Printf("tags:       %s\n", strings.Join(subm.Tags, ", "))
	}
	if subm.ErrorMessage != "" {
		fmt.Printf("error:      %s\n", subm.ErrorMessage)
	}
	if subm.Solution != "" {
		fmt.Printf("\n%s\n", subm.Solution)
	}
}
