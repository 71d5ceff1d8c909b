package main

import (
	"context"
	"eld-trip-planner/internal/adapters/geocode"
	"eld-trip-planner/internal/api/dto"
	"eld-trip-planner/internal/domain"
	"eld-trip-planner/internal/platform/obs"
	"eld-trip-planner/internal/services"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type planOptions struct {
	current    string
	pickup     string
	dropoff    string
	cycleHours float64
	startDate  string
	asJSON     bool
	gazetteer  string
	verbose    bool
}

type planOutput struct {
	Plan dto.RoutePlanResponse `json:"plan"`
	Logs dto.TripLogResponse   `json:"logs"`
}

func newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a trip offline and print its stops and duty logs",
		Long: `Resolves the three locations with the built-in gazetteer (plus an
optional seed file), plans rest and fuel stops, and builds one duty log
per calendar day.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.current, "current", "", "current location (city name or \"lat,lng\")")
	f.StringVar(&opts.pickup, "pickup", "", "pickup location")
	f.StringVar(&opts.dropoff, "dropoff", "", "dropoff location")
	f.Float64Var(&opts.cycleHours, "cycle-hours", 0, "hours already used in the current 70-hour cycle")
	f.StringVar(&opts.startDate, "start-date", "", "first log day as YYYY-MM-DD (default today)")
	f.BoolVar(&opts.asJSON, "json", false, "print JSON instead of text")
	f.StringVar(&opts.gazetteer, "gazetteer", "", "extra gazetteer entries (.json, .yaml or .yml)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log resolver timings to stderr")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("pickup")
	_ = cmd.MarkFlagRequired("dropoff")

	return cmd
}

func runPlan(ctx context.Context, out io.Writer, opts *planOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := zap.NewNop()
	if opts.verbose {
		l, err := obs.NewLogger("debug")
		if err != nil {
			return err
		}
		logger = l
		defer func() { _ = logger.Sync() }()
	}

	var extra []geocode.GazetteerEntry
	if opts.gazetteer != "" {
		entries, err := geocode.LoadGazetteerFile(opts.gazetteer)
		if err != nil {
			return err
		}
		extra = entries
	}
	resolver, err := geocode.NewCachedResolver(geocode.NewGazetteer(extra...), logger)
	if err != nil {
		return err
	}

	start, err := dto.GenerateLogsRequest{StartDate: opts.startDate}.ParseStartDate(time.Now())
	if err != nil {
		return err
	}

	plan, err := services.PlanTrip(ctx, services.PlanTripRequest{
		CurrentLocation:   opts.current,
		PickupLocation:    opts.pickup,
		DropoffLocation:   opts.dropoff,
		CurrentCycleHours: opts.cycleHours,
	}, resolver)
	if err != nil {
		return err
	}

	tripLog, err := services.BuildDutyLog(plan, start)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(planOutput{
			Plan: dto.NewRoutePlanResponse(plan),
			Logs: dto.NewTripLogResponse(tripLog),
		})
	}

	return printText(out, plan, tripLog)
}

func printText(out io.Writer, plan *domain.RoutePlan, tripLog *domain.TripLog) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Route\t%s -> %s -> %s\n", plan.StartLocation, plan.PickupLocation, plan.DropoffLocation)
	fmt.Fprintf(tw, "Distance\t%.1f mi\n", plan.TotalDistanceMiles)
	fmt.Fprintf(tw, "Driving\t%.2f h\n", plan.TotalDrivingHours)
	fmt.Fprintf(tw, "Trip\t%.2f h\n", plan.TotalTripHours)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "STOP\tAT\tDETAIL")
	for _, stop := range plan.Stops() {
		at := stop.Location()
		switch s := stop.(type) {
		case domain.RestStop:
			fmt.Fprintf(tw, "%s\t%.4f,%.4f\t%g h\n", s.Reason, at.Lat, at.Lon, s.DurationHours)
		case domain.FuelStop:
			fmt.Fprintf(tw, "Fuel\t%.4f,%.4f\t%.1f mi\n", at.Lat, at.Lon, s.CumulativeDistanceMiles)
		}
	}

	for _, d := range tripLog.Days {
		fmt.Fprintln(tw)
		fmt.Fprintf(tw, "%s\tdriving %.2f\ton duty %.2f\toff duty %.2f\tcycle %.2f\n",
			d.Date.Format(dto.CalendarDateLayout), d.DrivingHours, d.OnDutyHours, d.OffDutyHours, d.CycleHoursUsed)

		blocks := make([]string, 0, len(d.StatusBlocks))
		for _, b := range d.StatusBlocks {
			blocks = append(blocks, fmt.Sprintf("%s[%g,%g)", b.Status.Code(), b.StartHour, b.EndHour))
		}
		fmt.Fprintf(tw, "\t%s\n", strings.Join(blocks, " "))
	}

	return tw.Flush()
}
