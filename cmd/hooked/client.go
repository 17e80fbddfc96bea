package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"hooked/internal/client"
	"hooked/internal/domain/post"
	"hooked/internal/metrics"
	"hooked/internal/paging"
	"hooked/internal/viewmodel"
)

func (a *app) client() *client.Client {
	return client.New(a.cfg.API, nil)
}

func (a *app) settings() viewmodel.Settings {
	return viewmodel.Settings{
		Debounce:     a.cfg.UI.SearchDebounce,
		Timeout:      time.Duration(a.cfg.API.TimeoutSec) * time.Second,
		PageHook:     metrics.ObservePage,
		MutationHook: metrics.ObserveMutation,
	}
}

// loadErr waits for the in-flight fetch and reports the list's error, if any.
func loadErr[T any](l interface {
	Wait()
	State() paging.State[T]
}) error {
	l.Wait()
	if msg := l.State().ErrorMessage; msg != "" {
		return errors.New(msg)
	}
	return nil
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func feedCmd(a *app) *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewFeed(a.client(), a.settings())
			defer vm.Close()

			vm.Load()
			for i := 0; i < pages; i++ {
				if err := loadErr[post.Post](vm); err != nil {
					return err
				}
				if i == pages-1 || !vm.HasMore() {
					break
				}
				vm.Next()
			}

			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tAUTHOR\tLIKES\tCOMMENTS\tWHEN\tTEXT")
			for _, p := range vm.Items() {
				liked := ""
				if p.Liked {
					liked = "*"
				}
				fmt.Fprintf(tw, "%s\t%s %s\t%d%s\t%d\t%s\t%s\n", p.ID, p.FirstName, p.LastName,
					p.LikeCount, liked, p.CommentCount, p.Timestamp.Format(time.DateTime), p.Content.Description)
			}
			st := vm.State()
			fmt.Fprintf(tw, "\n%d of %d posts\n", len(st.Items), st.TotalCount)
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to load")
	return cmd
}

func postCmd(a *app) *cobra.Command {
	var (
		text     string
		tags     []string
		lat, lng float64
		images   []string
	)
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Share a catch",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := post.Draft{Description: text, Tags: tags}
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
				d.Location = &post.Location{Lat: lat, Lng: lng}
			}
			for _, path := range images {
				b, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				d.Images = append(d.Images, b)
			}

			vm := viewmodel.NewFeed(a.client(), a.settings())
			defer vm.Close()
			if err := vm.CreatePost(cmd.Context(), d); err != nil {
				if msg := vm.MutationError(); msg != "" {
					return errors.New(msg)
				}
				return err
			}
			vm.Wait()
			fmt.Fprintln(cmd.OutOrStdout(), "posted")
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "Description")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	cmd.Flags().StringArrayVar(&images, "image", nil, "JPEG file to attach (repeatable)")
	return cmd
}

func likeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like POST_ID",
		Short: "Toggle your like on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewFeed(a.client(), a.settings())
			defer vm.Close()

			vm.Load()
			found := func() (post.Post, bool) {
				for _, p := range vm.Items() {
					if p.ID == args[0] {
						return p, true
					}
				}
				return post.Post{}, false
			}
			for {
				if err := loadErr[post.Post](vm); err != nil {
					return err
				}
				if _, ok := found(); ok || !vm.HasMore() {
					break
				}
				vm.Next()
			}
			if _, ok := found(); !ok {
				return fmt.Errorf("post %s is not in your feed", args[0])
			}
			if err := vm.Like(cmd.Context(), args[0]); err != nil {
				return err
			}
			p, _ := found()
			fmt.Fprintf(cmd.OutOrStdout(), "liked=%t likes=%d\n", p.Liked, p.LikeCount)
			return nil
		},
	}
}

func commentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comments POST_ID",
		Short: "List comments on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := loadComments(a, args[0])
			if err != nil {
				return err
			}
			defer vm.Close()
			printComments(cmd.OutOrStdout(), vm)
			return nil
		},
	}
}

func loadComments(a *app, postID string) (*viewmodel.Comments, error) {
	vm := viewmodel.NewComments(a.client(), postID, a.settings())
	vm.Load()
	for {
		if err := loadErr[commentItem](vm); err != nil {
			vm.Close()
			return nil, err
		}
		if !vm.HasMore() {
			return vm, nil
		}
		vm.Next()
	}
}

func printComments(w io.Writer, vm *viewmodel.Comments) {
	tw := table(w)
	fmt.Fprintln(tw, "ID\tAUTHOR\tWHEN\tCOMMENT")
	for _, c := range vm.Items() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.User.HandleName, c.CreatedAt.Format(time.DateTime), c.Content)
	}
	tw.Flush()
}

func commentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Add, edit or delete a comment",
	}

	run := func(fn func(ctx context.Context, vm *viewmodel.Comments, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			vm, err := loadComments(a, args[0])
			if err != nil {
				return err
			}
			defer vm.Close()
			if err := fn(cmd.Context(), vm, args); err != nil {
				if msg := vm.SubmitError(); msg != "" {
					return errors.New(msg)
				}
				return err
			}
			vm.Wait()
			printComments(cmd.OutOrStdout(), vm)
			return nil
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:  "add POST_ID TEXT",
			Args: cobra.ExactArgs(2),
			RunE: run(func(ctx context.Context, vm *viewmodel.Comments, args []string) error {
				return vm.Create(ctx, args[1])
			}),
		},
		&cobra.Command{
			Use:  "edit POST_ID COMMENT_ID TEXT",
			Args: cobra.ExactArgs(3),
			RunE: run(func(ctx context.Context, vm *viewmodel.Comments, args []string) error {
				return vm.Edit(ctx, args[1], args[2])
			}),
		},
		&cobra.Command{
			Use:  "delete POST_ID COMMENT_ID",
			Args: cobra.ExactArgs(2),
			RunE: run(func(ctx context.Context, vm *viewmodel.Comments, args []string) error {
				return vm.Delete(ctx, args[1])
			}),
		},
	)
	return cmd
}

func friendsCmd(a *app) *cobra.Command {
	var (
		query     string
		pending   bool
		suggested bool
	)
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "List friends, pending requests or suggestions",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table(cmd.OutOrStdout())
			defer tw.Flush()

			if suggested {
				vm := viewmodel.NewSuggestedFriends(a.client(), a.settings())
				defer vm.Close()
				vm.ResetAndFetch(query)
				if err := loadErr[userItem](vm); err != nil {
					return err
				}
				fmt.Fprintln(tw, "USER\tNAME\tREQUESTED")
				for _, u := range vm.Items() {
					fmt.Fprintf(tw, "%s\t%s\t%t\n", u.ID, u.DisplayName(), u.FriendRequested)
				}
				return nil
			}

			var vm interface {
				ResetAndFetch(string)
				Wait()
				State() paging.State[friendItem]
				Items() []friendItem
				Close()
			}
			if pending {
				vm = viewmodel.NewPendingFriends(a.client(), a.settings())
			} else {
				vm = viewmodel.NewFriends(a.client(), a.settings())
			}
			defer vm.Close()
			vm.ResetAndFetch(query)
			if err := loadErr[friendItem](vm); err != nil {
				return err
			}
			fmt.Fprintln(tw, "ID\tUSER\tNAME\tSTATUS")
			for _, f := range vm.Items() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.User.ID, f.User.DisplayName(), f.Status)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name")
	cmd.Flags().BoolVar(&pending, "pending", false, "Show incoming requests")
	cmd.Flags().BoolVar(&suggested, "suggested", false, "Show suggested friends")
	cmd.MarkFlagsMutuallyExclusive("pending", "suggested")
	return cmd
}

func approveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "approve REQUEST_ID",
		Short: "Approve an incoming friend request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewPendingFriends(a.client(), a.settings())
			defer vm.Close()
			vm.ResetAndFetch("")
			if err := loadErr[friendItem](vm); err != nil {
				return err
			}
			if err := vm.Approve(cmd.Context(), args[0]); err != nil {
				return errors.New(vm.MutationError())
			}
			vm.Wait()
			fmt.Fprintf(cmd.OutOrStdout(), "%d pending\n", len(vm.Items()))
			return nil
		},
	}
}

func addFriendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-friend USER_ID",
		Short: "Send a friend request to a suggested user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewSuggestedFriends(a.client(), a.settings())
			defer vm.Close()
			vm.ResetAndFetch("")
			if err := loadErr[userItem](vm); err != nil {
				return err
			}
			if err := vm.AddFriend(cmd.Context(), args[0]); err != nil {
				return errors.New(vm.MutationError())
			}
			fmt.Fprintln(cmd.OutOrStdout(), "requested")
			return nil
		},
	}
}

func speciesCmd(a *app) *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "species [QUERY]",
		Short: "Search the species catalogue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewSpecies(a.client(), a.settings())
			defer vm.Close()
			out := cmd.OutOrStdout()

			if !interactive {
				vm.ResetAndFetch(strings.Join(args, " "))
				if err := loadErr[speciesItem](vm); err != nil {
					return err
				}
				printSpecies(out, vm.State())
				return nil
			}

			// Each line is search text; results print once typing pauses.
			unsubscribe := vm.Subscribe(func(st paging.State[speciesItem]) {
				if st.IsFetching {
					return
				}
				if st.ErrorMessage != "" {
					fmt.Fprintln(out, st.ErrorMessage)
					return
				}
				printSpecies(out, st)
			})
			defer unsubscribe()

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				vm.Search(strings.TrimSpace(sc.Text()))
			}
			time.Sleep(a.cfg.UI.SearchDebounce + 50*time.Millisecond)
			vm.Wait()
			return sc.Err()
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read search text from stdin line by line")
	return cmd
}

func printSpecies(w io.Writer, st paging.State[speciesItem]) {
	tw := table(w)
	fmt.Fprintln(tw, "NAME\tSCIENTIFIC\tA3")
	for _, s := range st.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.EnglishName, s.ScientificName, s.A3Code)
	}
	fmt.Fprintf(tw, "%d of %d\n", len(st.Items), st.TotalCount)
	tw.Flush()
}

func catchesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catches",
		Short: "List your catches",
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewCatches(a.client(), a.settings())
			defer vm.Close()
			vm.Load()
			if err := loadErr[catchItem](vm); err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tWHEN\tSPECIES\tWEATHER")
			for _, c := range vm.Items() {
				name, conditions := "-", "-"
				if c.Species != nil {
					name = c.Species.EnglishName
				}
				if c.Weather != nil {
					conditions = c.Weather.FormattedTemperature() + " " + c.Weather.FormattedWind()
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.CreatedAt.Format(time.DateTime), name, conditions)
			}
			return tw.Flush()
		},
	}
}

func storiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stories",
		Short: "List your friends' current stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			stories, err := a.client().Stories(cmd.Context())
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "FROM\tEXPIRES\tVIDEO")
			for _, s := range stories {
				fmt.Fprintf(tw, "%s %s\t%s\t%s\n", s.UserFirstName, s.UserLastName, s.ExpiresAt.Format(time.DateTime), s.VideoURL)
			}
			return tw.Flush()
		},
	}
}

func weatherCmd(a *app) *cobra.Command {
	var lat, lng float64
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Current conditions at a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewFeed(a.client(), a.settings())
			defer vm.Close()
			vm.LoadWeather(cmd.Context(), lat, lng)
			w := vm.Weather()
			if w == nil {
				return errors.New("weather unavailable")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, wind %s\n", w.FormattedTemperature(), w.FormattedWind())
			return nil
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}
