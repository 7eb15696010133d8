// Command admin manages user accounts from the shell, bypassing the web
// registration flow. It opens the same SQLite database the server uses
// (DB_PATH, .env honored), so run it on the host where the database lives.
//
// Usage:
//
//	admin create <username> <email> <password> [-admin] [-instructor]
//	admin make-admin <username>
//	admin list-admins
//	admin list-users
//
// "create" is the only way to mint instructor or admin accounts — the web
// flow registers students exclusively.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/sakif/edulearn/internal/auth"
	"github.com/sakif/edulearn/internal/model"
	"github.com/sakif/edulearn/internal/repository/sqlite"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	if len(args) == 0 {
		usage()
		return fmt.Errorf("no command given")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/edulearn.db"
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	defer db.Close()

	ctx := context.Background()

	switch cmd := args[0]; cmd {
	case "create":
		return createUser(ctx, db, args[1:])
	case "make-admin":
		return makeAdmin(ctx, db, args[1:])
	case "list-admins":
		return listUsers(ctx, db, true)
	case "list-users":
		return listUsers(ctx, db, false)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage:
  admin create <username> <email> <password> [-admin] [-instructor]
  admin make-admin <username>
  admin list-admins
  admin list-users`)
}

func createUser(ctx context.Context, db *sqlite.DB, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	isAdmin := fs.Bool("admin", false, "grant the admin role")
	isInstructor := fs.Bool("instructor", false, "create as instructor instead of student")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("create needs exactly <username> <email> <password>")
	}
	username, email, password := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	hash, err := auth.NewPasswordService().Hash(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsStudent:    !*isInstructor,
		IsAdmin:      *isAdmin,
	}
	if err := db.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	role := "student"
	if !user.IsStudent {
		role = "instructor"
	}
	fmt.Printf("Created %s %q (id %s, admin=%v)\n", role, user.Username, user.ID, user.IsAdmin)
	return nil
}

func makeAdmin(ctx context.Context, db *sqlite.DB, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("make-admin needs exactly <username>")
	}

	user, err := db.GetUserByUsername(ctx, args[0])
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if user.IsAdmin {
		fmt.Printf("%q is already an admin\n", user.Username)
		return nil
	}

	if err := db.SetRoles(ctx, user.ID, user.IsStudent, true); err != nil {
		return fmt.Errorf("granting admin: %w", err)
	}
	fmt.Printf("%q is now an admin\n", user.Username)
	return nil
}

func listUsers(ctx context.Context, db *sqlite.DB, adminsOnly bool) error {
	users, err := db.ListUsers(ctx, adminsOnly)
	if err != nil {
		return fmt.Errorf("listing users: %w", err)
	}
	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tEMAIL\tROLE\tADMIN\tCREATED")
	for _, u := range users {
		role := "student"
		if u.IsInstructor() {
			role = "instructor"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%s\n",
			u.Username, u.Email, role, u.IsAdmin, u.CreatedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}
