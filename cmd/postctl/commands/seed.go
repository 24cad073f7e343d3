package commands

import (
	"fmt"

	"postboard/internal/auth"
	"postboard/internal/bootstrap"
	"postboard/internal/cache"
	"postboard/internal/database"
	"postboard/internal/seed"

	"github.com/spf13/cobra"
)

var (
	seedOpts = seed.DefaultOptions()
	seedRand int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with demo users, posts and likes",
	Example: `  postctl seed --users 50 --posts-per-user 3
  postctl seed --clean --rand 42     # reproducible data set`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		_, rt, err := openRuntime(ctx, bootstrap.Options{})
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := database.NewSchemaManager(rt.DB).EnsureAll(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}

		res, err := seed.NewSeeder(rt.DB, auth.NewHasher(auth.DefaultArgon2Params), seedRand).Run(ctx, seedOpts)
		if err != nil {
			return err
		}
		cache.NewPostListings(rt.Redis, cache.DefaultListTTL).Invalidate(ctx)

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d posts, %d likes\n", res.Users, res.Posts, res.Likes)
		fmt.Fprintf(cmd.OutOrStdout(), "all demo users share the password %q\n", seedOpts.Password)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedOpts.Users, "users", seedOpts.Users, "Number of users to create")
	seedCmd.Flags().IntVar(&seedOpts.PostsPerUser, "posts-per-user", seedOpts.PostsPerUser, "Posts created for each user")
	seedCmd.Flags().IntVar(&seedOpts.MaxLikesPerPost, "max-likes", seedOpts.MaxLikesPerPost, "Upper bound on likes per post")
	seedCmd.Flags().StringVar(&seedOpts.Password, "password", seedOpts.Password, "Password shared by every demo user")
	seedCmd.Flags().BoolVar(&seedOpts.Clean, "clean", false, "Truncate users, posts and likes first")
	seedCmd.Flags().Int64Var(&seedRand, "rand", 0, "Random seed; 0 picks one")
}
