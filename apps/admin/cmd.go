package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/application"
	"github.com/trezcool/mediateam/core/auth"
	"github.com/trezcool/mediateam/core/college"
	"github.com/trezcool/mediateam/core/session"
)

const msgSessionExpired = "انتهت الجلسة، يرجى تسجيل الدخول مجددًا"

var commands = []string{
	"login", "logout", "applications", "application",
	"colleges", "addcollege", "editcollege", "delcollege",
}

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in")
	errAborted     = errors.New("aborted")
)

type commandLine struct {
	authSvc    *auth.Service
	appSvc     *application.Service
	collegeSvc *college.Service
	holder     session.Holder
	translator ut.Translator
	in         *bufio.Reader
	out        io.Writer
}

func newCommandLine(
	authSvc *auth.Service,
	appSvc *application.Service,
	collegeSvc *college.Service,
	holder session.Holder,
	translator ut.Translator,
	in io.Reader,
	out io.Writer,
) *commandLine {
	return &commandLine{
		authSvc:    authSvc,
		appSvc:     appSvc,
		collegeSvc: collegeSvc,
		holder:     holder,
		translator: translator,
		in:         bufio.NewReader(in),
		out:        out,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL - sign in; the password will be prompted next")
	fmt.Fprintln(cli.out, "  logout - forget the stored token")
	fmt.Fprintln(cli.out, "  applications - list the recruitment applications")
	fmt.Fprintln(cli.out, "  application -id ID - show one application")
	fmt.Fprintln(cli.out, "  colleges - list the colleges")
	fmt.Fprintln(cli.out, "  addcollege -name NAME -years YEARS - create a college")
	fmt.Fprintln(cli.out, "  editcollege -id ID [-name NAME] [-years YEARS] - update a college")
	fmt.Fprintln(cli.out, "  delcollege -id ID [-yes] - delete a college")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The staff email. The password will be prompted next.")

	applicationCmd := flag.NewFlagSet("application", flag.ExitOnError)
	applicationID := applicationCmd.String("id", "", "The application id.")

	addCollegeCmd := flag.NewFlagSet("addcollege", flag.ExitOnError)
	addCollegeName := addCollegeCmd.String("name", "", "The college name.")
	addCollegeYears := addCollegeCmd.Int("years", college.DefaultAcademicYearsCount, "The number of academic years (1-10).")

	editCollegeCmd := flag.NewFlagSet("editcollege", flag.ExitOnError)
	editCollegeID := editCollegeCmd.String("id", "", "The college id.")
	editCollegeName := editCollegeCmd.String("name", "", "The new name. Unchanged when omitted.")
	editCollegeYears := editCollegeCmd.Int("years", 0, "The new number of academic years. Unchanged when omitted.")

	delCollegeCmd := flag.NewFlagSet("delcollege", flag.ExitOnError)
	delCollegeID := delCollegeCmd.String("id", "", "The college id.")
	delCollegeYes := delCollegeCmd.Bool("yes", false, "Skip the confirmation prompt.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		return cli.login(*loginEmail, string(pwd))
	case "logout":
		return cli.logout()
	case "applications":
		return cli.protected(cli.listApplications)
	case "application":
		if err := applicationCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *applicationID == "" {
			applicationCmd.Usage()
			return errHelp
		}
		return cli.protected(func(ctx context.Context) error {
			return cli.showApplication(ctx, *applicationID)
		})
	case "colleges":
		return cli.protected(cli.listColleges)
	case "addcollege":
		if err := addCollegeCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.protected(func(ctx context.Context) error {
			return cli.saveCollege(ctx, nil, college.Form{Name: *addCollegeName, AcademicYearsCount: *addCollegeYears})
		})
	case "editcollege":
		if err := editCollegeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *editCollegeID == "" {
			editCollegeCmd.Usage()
			return errHelp
		}
		set := make(map[string]bool)
		editCollegeCmd.Visit(func(f *flag.Flag) { set[f.Name] = true })
		return cli.protected(func(ctx context.Context) error {
			target, err := cli.collegeSvc.Get(ctx, *editCollegeID)
			if err != nil {
				return err
			}
			form := college.NewForm(&target)
			if set["name"] {
				form.Name = *editCollegeName
			}
			if set["years"] {
				form.AcademicYearsCount = *editCollegeYears
			}
			return cli.saveCollege(ctx, &target, form)
		})
	case "delcollege":
		if err := delCollegeCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *delCollegeID == "" {
			delCollegeCmd.Usage()
			return errHelp
		}
		return cli.protected(func(ctx context.Context) error {
			return cli.deleteCollege(ctx, *delCollegeID, *delCollegeYes)
		})
	default:
		if s := suggest(args[1]); s != "" {
			fmt.Fprintf(cli.out, "Unknown command %q. Did you mean %q?\n", args[1], s)
		}
		cli.printUsage()
		return errHelp
	}
}

// suggest returns the known command closest to name, or "" when none is close enough.
func suggest(name string) string {
	var best string
	var bestRatio float64
	for _, cmd := range commands {
		ratio := difflib.NewMatcher(strings.Split(name, ""), strings.Split(cmd, "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = cmd, ratio
		}
	}
	if bestRatio < 0.7 {
		return ""
	}
	return best
}

// protected runs fn behind the session gate. A token rejected by the backend is forgotten.
func (cli *commandLine) protected(fn func(ctx context.Context) error) error {
	if !session.Check(cli.holder).Allow {
		return errNotLoggedIn
	}
	ctx := session.NewContext(context.Background(), cli.holder)

	err := fn(ctx)
	if core.IsUnauthorized(err) {
		if lerr := cli.authSvc.Logout(ctx, cli.holder); lerr != nil {
			return errors.Wrap(lerr, "forgetting rejected token")
		}
		return errors.New(msgSessionExpired)
	}
	return err
}

// confirm asks a yes/no question; anything but an explicit yes is a no.
func (cli *commandLine) confirm(question string) bool {
	fmt.Fprintf(cli.out, "%s [y/N] ", question)
	answer, err := cli.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "نعم":
		return true
	}
	return false
}

// explain turns err into what the operator should read.
func (cli *commandLine) explain(err error) string {
	if fields := core.FieldErrors(err, cli.translator); fields != nil {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)

		lines := make([]string, 0, len(names))
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("%s: %s", name, fields[name]))
		}
		return strings.Join(lines, "\n")
	}
	if errors.Cause(err) == core.ErrInFlight {
		return "عملية أخرى قيد التنفيذ"
	}
	if _, ok := core.AsAPIError(err); ok {
		return core.ErrorMessage(err, err.Error())
	}
	return err.Error()
}
