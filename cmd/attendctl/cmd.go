package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/client"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
)

const defaultServer = "http://localhost:5001"

var errHelp = errors.New("help provided")

type commandLine struct {
	out    io.Writer
	logger *zap.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  checkin  -name NAME (-code CODE | -qr IMAGE)      - register attendance")
	fmt.Fprintln(cli.out, "  organize [-group ID] [-qr-out FILE] [-export FILE] - open a session and watch check-ins")
	fmt.Fprintln(cli.out, "  export   -event ID -out FILE [-calendar]          - download the attendance sheet or calendar")
	fmt.Fprintln(cli.out, "Every command accepts -server URL (default "+defaultServer+").")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	checkinCmd := flag.NewFlagSet("checkin", flag.ContinueOnError)
	checkinServer := checkinCmd.String("server", defaultServer, "API base URL")
	checkinName := checkinCmd.String("name", "", "Your full name.")
	checkinCode := checkinCmd.String("code", "", "The 6-character access code.")
	checkinQR := checkinCmd.String("qr", "", "Path to a PNG/JPEG image of the session QR code.")

	organizeCmd := flag.NewFlagSet("organize", flag.ContinueOnError)
	organizeServer := organizeCmd.String("server", defaultServer, "API base URL")
	organizeGroup := organizeCmd.Uint("group", 0, "Existing group ID (a new group is created when 0).")
	organizeEvent := organizeCmd.String("event-name", client.DefaultSessionOptions().EventName, "Event name.")
	organizeDuration := organizeCmd.Int("duration", client.DefaultSessionOptions().DurationMinutes, "Event duration in minutes.")
	organizeQROut := organizeCmd.String("qr-out", "", "Write the access-code QR PNG to this file.")
	organizeInterval := organizeCmd.Duration("interval", client.DefaultWatchInterval, "Attendance polling interval.")
	organizeFor := organizeCmd.Duration("for", 0, "Stop after this long (0 = until interrupted).")
	organizeExport := organizeCmd.String("export", "", "Write the attendance list to this xlsx file on exit.")
	organizeClose := organizeCmd.Bool("close", true, "Close the session on exit.")

	exportCmd := flag.NewFlagSet("export", flag.ContinueOnError)
	exportServer := exportCmd.String("server", defaultServer, "API base URL")
	exportEvent := exportCmd.Uint("event", 0, "Event ID.")
	exportOut := exportCmd.String("out", "", "Output file.")
	exportCalendar := exportCmd.Bool("calendar", false, "Download the .ics calendar instead of the xlsx sheet.")

	for _, fs := range []*flag.FlagSet{checkinCmd, organizeCmd, exportCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "checkin":
		if err := checkinCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *checkinName == "" || (*checkinCode == "") == (*checkinQR == "") {
			checkinCmd.Usage()
			return errHelp
		}
		return cli.checkin(ctx, client.New(*checkinServer, nil), *checkinName, *checkinCode, *checkinQR)
	case "organize":
		if err := organizeCmd.Parse(args[2:]); err != nil {
			return err
		}
		opts := client.DefaultSessionOptions()
		opts.EventName = *organizeEvent
		opts.DurationMinutes = *organizeDuration
		org := client.NewOrganizer(client.New(*organizeServer, nil), opts, *organizeGroup, cli.logger)
		return cli.organize(ctx, org, organizeArgs{
			qrOut:    *organizeQROut,
			interval: *organizeInterval,
			runFor:   *organizeFor,
			export:   *organizeExport,
			close:    *organizeClose,
		})
	case "export":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportEvent == 0 || *exportOut == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(ctx, client.New(*exportServer, nil), *exportEvent, *exportOut, *exportCalendar)
	default:
		cli.printUsage()
		return errHelp
	}
}

// ── checkin ──

func (cli *commandLine) checkin(ctx context.Context, api *client.Client, name, code, qrPath string) error {
	student := client.NewStudent(api, name)

	var (
		result *dto.CheckinResponse
		err    error
	)
	if qrPath != "" {
		f, openErr := os.Open(qrPath)
		if openErr != nil {
			return openErr
		}
		defer f.Close()
		result, err = student.CheckInFromQR(ctx, f)
	} else {
		result, err = student.CheckIn(ctx, code)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cli.out, result.Message)
	if result.Advice != "" {
		fmt.Fprintf(cli.out, "  %s\n", result.Advice)
	}
	return nil
}

// ── organize ──

type organizeArgs struct {
	qrOut    string
	interval time.Duration
	runFor   time.Duration
	export   string
	close    bool
}

func (cli *commandLine) organize(ctx context.Context, org *client.Organizer, a organizeArgs) error {
	event, err := org.Start(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Session %q is OPEN (event %d)\nCODE: %s\n", event.Name, event.ID, event.AccessCode)

	if a.qrOut != "" {
		png, err := org.QRCode(ctx, 0)
		if err != nil {
			return err
		}
		// 先写临时文件再改名，读取方不会看到半个文件
		tmp := a.qrOut + ".tmp"
		if err := os.WriteFile(tmp, png, 0o644); err != nil {
			return err
		}
		if err := os.Rename(tmp, a.qrOut); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "QR code written to %s\n", a.qrOut)
	}

	watchCtx := ctx
	if a.runFor > 0 {
		var cancel context.CancelFunc
		watchCtx, cancel = context.WithTimeout(ctx, a.runFor)
		defer cancel()
	}

	seen := 0
	err = org.Watch(watchCtx, a.interval, func(list []dto.AttendanceResponse) {
		// 名单按时间倒序，新增项位于头部
		for i := len(list) - seen - 1; i >= 0; i-- {
			fmt.Fprintf(cli.out, "  %s  %s\n", list[i].CheckInTime.Local().Format("15:04:05"), list[i].ParticipantName)
		}
		if len(list) > seen {
			seen = len(list)
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	// 收尾使用独立 ctx，避免被已取消的信号 ctx 中断
	finishCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := org.Sync(finishCtx); err != nil {
		cli.logger.Warn("最终同步失败", zap.Error(err))
	}
	fmt.Fprintf(cli.out, "Participants: %d\n", len(org.Attendance()))

	if a.export != "" {
		f, err := os.Create(a.export)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := org.Export(f); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "Attendance written to %s\n", a.export)
	}

	if a.close {
		if err := org.Close(finishCtx); err != nil {
			return err
		}
		fmt.Fprintln(cli.out, "Session closed.")
	}
	return nil
}

// ── export ──

func (cli *commandLine) export(ctx context.Context, api *client.Client, eventID uint, out string, calendar bool) error {
	var (
		data []byte
		err  error
	)
	if calendar {
		data, err = api.Calendar(ctx, eventID)
	} else {
		data, err = api.ExportAttendance(ctx, eventID)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Wrote %d bytes to %s\n", len(data), out)
	return nil
}
