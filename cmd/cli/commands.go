package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/gospend/internal/adapter/http/dto"
	"github.com/iho/gospend/internal/domain"
	"github.com/iho/gospend/internal/infrastructure/config"
	"github.com/iho/gospend/internal/usecase"
)

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	defaults, err := config.Load()
	if err != nil {
		defaults = &config.Config{SQLitePath: "data/gospend.db", LogLevel: "warn"}
	}

	rootCmd := &cobra.Command{
		Use:           "gospend",
		Short:         "GoSpend CLI tool",
		Long:          `A command line interface for the on-device GoSpend expense ledger.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&c.dbPath, "db", defaults.SQLitePath, "Path of the SQLite ledger database")
	rootCmd.PersistentFlags().StringVar(&c.timezone, "tz", defaults.Timezone, "Time zone of calendar days (empty for local time)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level")
	rootCmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Print JSON instead of text")

	rootCmd.AddCommand(
		c.signupCmd(),
		c.whoamiCmd(),
		c.addCmd(),
		c.editCmd(),
		c.deleteCmd(),
		c.dayCmd(),
		c.summaryCmd(),
		c.calendarCmd(),
		c.categoriesCmd(),
	)

	return rootCmd
}

func (c *cli) signupCmd() *cobra.Command {
	var input usecase.SignUpInput

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create the local account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCredentials(cmd.Context(), func(uc *usecase.CredentialUseCase) error {
				cred, err := uc.SignUp(cmd.Context(), input)
				if err != nil {
					return err
				}
				return c.print(dto.ProfileFromDomain(cred), func(w io.Writer) {
					fmt.Fprintf(w, "Account created for %s <%s>\n", cred.Name, cred.Email)
				})
			})
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "Account name")
	cmd.Flags().StringVar(&input.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&input.Password, "password", "", "Account password")

	return cmd
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the local account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withCredentials(cmd.Context(), func(uc *usecase.CredentialUseCase) error {
				cred, err := uc.Profile(cmd.Context())
				if err != nil {
					return err
				}
				return c.print(dto.ProfileFromDomain(cred), func(w io.Writer) {
					fmt.Fprintf(w, "%s <%s>\n", cred.Name, cred.Email)
				})
			})
		},
	}
}

func (c *cli) addCmd() *cobra.Command {
	var memo, income string

	cmd := &cobra.Command{
		Use:   "add <category> <amount>",
		Short: "Add an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *usecase.Session) error {
				e, err := s.AddExpense(cmd.Context(), usecase.AddExpenseInput{
					Category: args[0],
					Amount:   args[1],
					Memo:     memo,
					Income:   income,
				})
				if err != nil {
					return err
				}
				if e == nil {
					return c.print(dto.MessageResponse{Message: "nothing added"}, func(w io.Writer) {
						fmt.Fprintln(w, "nothing added")
					})
				}
				return c.print(dto.ExpenseFromDomain(e, s.Location()), func(w io.Writer) {
					fmt.Fprintf(w, "#%d %s %s %s\n", e.ID, e.Icon(), e.Category, domain.FormatAmount(e.Amount))
				})
			})
		},
	}

	cmd.Flags().StringVar(&memo, "memo", "", "Free text note")
	cmd.Flags().StringVar(&income, "income", "", "Income received alongside the expense")

	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <amount>",
		Short: "Change the amount of an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return c.withSession(cmd.Context(), func(s *usecase.Session) error {
				e, err := s.EditExpense(cmd.Context(), id, args[1])
				if err != nil {
					return err
				}
				return c.print(dto.ExpenseFromDomain(e, s.Location()), func(w io.Writer) {
					fmt.Fprintf(w, "#%d %s %s\n", e.ID, e.Category, domain.FormatAmount(e.Amount))
				})
			})
		},
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return c.withSession(cmd.Context(), func(s *usecase.Session) error {
				removed, err := s.DeleteExpense(cmd.Context(), id)
				if err != nil {
					return err
				}

				msg := fmt.Sprintf("expense %d deleted", id)
				if !removed {
					msg = fmt.Sprintf("expense %d not found, nothing changed", id)
				}
				return c.print(dto.MessageResponse{Message: msg}, func(w io.Writer) {
					fmt.Fprintln(w, msg)
				})
			})
		},
	}
}

func (c *cli) dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "List the expenses of a day (today by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *usecase.Session) error {
				loc := s.Location()

				date := time.Now().In(loc).Format(domain.DayLayout)
				if len(args) == 1 {
					date = args[0]
				}

				day, err := domain.ParseDay(date, loc)
				if err != nil {
					return err
				}

				expenses := s.ExpensesForDate(day)
				total := s.DayTotal(day)

				resp := dto.ListExpensesResponse{
					Date:     date,
					Expenses: dto.ExpensesFromDomain(expenses, loc),
					Total:    total,
					Display:  domain.FormatAmount(total),
				}
				return c.print(resp, func(w io.Writer) {
					tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
					for _, e := range resp.Expenses {
						fmt.Fprintf(tw, "#%d\t%s\t%s %s\t%s\t%s\n", e.ID, e.Time, e.Icon, e.Category, e.Display, e.Memo)
					}
					_ = tw.Flush()
					fmt.Fprintf(w, "Total %s: %s\n", date, resp.Display)
				})
			})
		},
	}
}

func (c *cli) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show totals and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *usecase.Session) error {
				resp := dto.SummaryFromUseCase(s.Summary())
				return c.print(resp, func(w io.Writer) {
					fmt.Fprintf(w, "Expenses: %s\n", resp.Display.TotalExpense)
					fmt.Fprintf(w, "Income:   %s\n", resp.Display.TotalIncome)
					fmt.Fprintf(w, "Balance:  %s\n", resp.Display.Balance)
					if resp.Warning != "" {
						fmt.Fprintln(w, resp.Warning)
					}
				})
			})
		},
	}
}

func (c *cli) calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "List the days holding expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd.Context(), func(s *usecase.Session) error {
				days := s.MarkedDays()
				if days == nil {
					days = []string{}
				}
				return c.print(dto.CalendarResponse{MarkedDays: days}, func(w io.Writer) {
					for _, d := range days {
						fmt.Fprintln(w, d)
					}
				})
			})
		},
	}
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the expense categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := domain.Categories()
			resp := dto.ListCategoriesResponse{
				Categories:  dto.CategoriesFromDomain(categories),
				DefaultIcon: domain.DefaultIcon,
			}
			return c.print(resp, func(w io.Writer) {
				for _, cat := range categories {
					fmt.Fprintf(w, "%s %s\n", cat.Icon, cat.Name)
				}
			})
		},
	}
}

func (c *cli) print(v any, text func(w io.Writer)) error {
	if c.jsonOutput {
		return printJSON(c.out, v)
	}
	text(c.out)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid expense id %q", domain.ErrValidation, s)
	}
	return id, nil
}
