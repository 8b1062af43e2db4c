package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/FACorreiaa/go-wanderlust-places/config"
	generativeAI "github.com/FACorreiaa/go-wanderlust-places/internal/api/generative_ai"
	"github.com/FACorreiaa/go-wanderlust-places/internal/api/recommend"
	"github.com/FACorreiaa/go-wanderlust-places/internal/types"
)

var model = flag.String("model", "", "override the configured model, e.g. gemini-2.0-flash")

// Walks the three recommendation stages against the live Gemini API.
//
//	go run ./scripts -model gemini-2.0-flash
func main() {
	flag.Parse()
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}
	if *model != "" {
		cfg.LLM.Model = *model
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo}))
	ctx := context.Background()

	ai, err := generativeAI.NewAIClient(ctx, cfg.LLM, logger)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	svc := recommend.NewServiceImpl(ai, logger)

	in := bufio.NewScanner(os.Stdin)
	state := types.ConversationState{Stage: types.StageInitial}

	fmt.Print("What would you like to do in Europe? > ")
	for in.Scan() {
		query := strings.TrimSpace(in.Text())
		if query == "quit" || query == "exit" {
			return
		}

		next, reply, err := svc.Respond(ctx, state, query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			fmt.Print("> ")
			continue
		}
		out, _ := json.MarshalIndent(reply, "", "  ")
		fmt.Println(string(out))

		switch r := reply.(type) {
		case types.ActivityReply:
			fmt.Printf("%s (%s)\n> ", r.FollowUpQuestion, strings.Join(r.AvailableInterests, ", "))
		case types.InterestsReply:
			fmt.Printf("%s\n(press enter for country details) > ", r.NextStep)
		case types.CountryDetailsReply:
			fmt.Printf("%s\n> ", r.NextStep)
		}
		state = next
	}
}
