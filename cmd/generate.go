package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/invoicegen/pkg/invoice"
)

// newPrompter is swapped out by tests.
var newPrompter = func() (prompter, error) {
	return newReadlinePrompter(os.Stdin, os.Stdout)
}

func runGenerate(c *cli.Context) error {
	d, err := setup(c)
	if err != nil {
		return err
	}
	defer d.Close()

	vars := invoice.LoadVariables(d.cfg.VariablesFile, d.logger)

	daysOff, err := readDaysOff(c)
	if err != nil {
		return err
	}

	result, err := d.generator.Build(c.Context, vars, daysOff)
	if err != nil {
		d.logger.Error("invoice generation failed", zap.Error(err))
		return err
	}

	location, err := d.sink.Store(c.Context, result.FileName, result.PDF)
	if err != nil {
		return err
	}
	d.logger.Info("invoice stored",
		zap.String("number", result.Number),
		zap.String("location", location))

	fmt.Fprintf(c.App.Writer, "\nInvoice PDF: %s\n", location)
	fmt.Fprintf(c.App.Writer, "Business days current month: %d\n", result.BusinessDays)
	return nil
}

// readDaysOff takes holidays and time-off from flags, prompting only for
// the ones not given.
func readDaysOff(c *cli.Context) (int, error) {
	holidaysSet, timeOffSet := c.IsSet("holidays"), c.IsSet("time-off")
	for _, name := range []string{"holidays", "time-off"} {
		if c.Int(name) < 0 {
			return 0, fmt.Errorf("--%s: %w", name, errNegativeDays)
		}
	}
	total := c.Int("holidays") + c.Int("time-off")
	if holidaysSet && timeOffSet {
		return total, nil
	}

	p, err := newPrompter()
	if err != nil {
		return 0, err
	}
	defer p.Close()

	if !holidaysSet {
		days, err := askDays(p, c.App.Writer, "Holidays (days)? ", "Holidays")
		if err != nil {
			return 0, err
		}
		total += days
	}
	if !timeOffSet {
		days, err := askDays(p, c.App.Writer, "Time-off (days)? ", "Time-off")
		if err != nil {
			return 0, err
		}
		total += days
	}
	return total, nil
}
