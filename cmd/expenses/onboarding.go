package main

import (
	"fmt"
	"io"

	"github.com/Veraticus/expense-tracker/internal/cli"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/spf13/cobra"
)

var guidePages = map[model.OnboardingStep]struct {
	title string
	body  string
}{
	model.StepDashboard: {
		title: cli.ChartIcon + " Track your spending",
		body: `Log an expense with 'expenses expense add <amount> --category <name>'.
Set a monthly limit per category with 'expenses budget set' and check
'expenses budget list' to see how close you are.`,
	},
	model.StepChatbot: {
		title: cli.RobotIcon + " Ask your assistant",
		body: `Run 'expenses chat' to talk about your spending and goals. Add an API
key with 'expenses chat config --api-key <key>' for real answers.`,
	},
	model.StepSavings: {
		title: cli.TargetIcon + " Save for what matters",
		body: `Create a goal with 'expenses savings add <name> <target>' and grow it
with 'expenses savings deposit'. Log something every day to build a streak
and unlock achievements.`,
	},
}

func onboardingCmd() *cobra.Command {
	var restart bool

	cmd := &cobra.Command{
		Use:     "onboarding",
		Aliases: []string{"guide", "welcome"},
		Short:   "Show the getting started guide",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.store.State()
			if err != nil {
				return err
			}
			if st.Onboarding.HasCompleted && !restart {
				fmt.Fprintln(out, cli.FormatInfo("You have already finished the guide. Use --restart to see it again."))
				return nil
			}

			if err := a.store.StartOnboarding(ctx); err != nil {
				return err
			}
			printGuide(out, st.Chat.BotName)
			if err := a.store.CompleteOnboarding(ctx); err != nil {
				return fmt.Errorf("failed to save onboarding progress: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&restart, "restart", false, "show the guide even if it was completed")

	return cmd
}

func printGuide(w io.Writer, botName string) {
	fmt.Fprintln(w, cli.FormatTitle("Welcome! "+botName+" will help you get started"))
	for i, step := range model.OnboardingSteps {
		page := guidePages[step]
		fmt.Fprintln(w, cli.RenderBox(fmt.Sprintf("%d/%d %s", i+1, len(model.OnboardingSteps), page.title), page.body))
	}
}
