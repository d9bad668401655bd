package clipctl

import (
	"context"
	"fmt"

	"github.com/clipstream/clipstream/pkg/client"
	"github.com/clipstream/clipstream/pkg/clilog"
	"github.com/clipstream/clipstream/pkg/engage"
	"github.com/clipstream/clipstream/pkg/formatter"
	"github.com/spf13/cobra"
)

var (
	watchedSeconds int
	videoDuration  float64
	waitForRetry   bool
)

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Video engagement: show, like, dislike, star, metadata",
}

var videoShowCmd = &cobra.Command{
	Use:   "show <video-id>",
	Short: "Show a video with its engagement counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		detail, err := apiClient.GetVideo(context.Background(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput {
			return formatter.PrintJSON(detail)
		}

		formatter.Bold.Println(detail.Video.Title)
		fields := map[string]interface{}{
			"id":       detail.Video.ID,
			"duration": fmt.Sprintf("%.0fs", detail.Video.Duration),
			"likes":    detail.Video.LikeCount,
			"dislikes": detail.Video.DislikeCount,
			"stars":    detail.Video.StarCount,
			"comments": detail.Video.CommentCount,
		}
		if detail.ViewerEngagement != nil {
			fields["you"] = viewerSummary(detail.ViewerEngagement)
		}
		formatter.PrintKeyValue(fields)
		return nil
	},
}

func viewerSummary(e *client.ViewerEngagement) string {
	switch {
	case e.Liked && e.Starred:
		return "liked, starred"
	case e.Liked:
		return "liked"
	case e.Disliked && e.Starred:
		return "disliked, starred"
	case e.Disliked:
		return "disliked"
	case e.Starred:
		return "starred"
	default:
		return "no reaction"
	}
}

var videoLikeCmd = &cobra.Command{
	Use:   "like <video-id>",
	Short: "Toggle your like on a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID := args[0]
		var result *client.ReactionResult
		err := withRateLimitWait(engage.Key{Action: engage.ActionLike, TargetID: videoID}, func() error {
			var err error
			result, err = apiClient.LikeVideo(context.Background(), videoID)
			return err
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return formatter.PrintJSON(result)
		}
		if result.Liked {
			formatter.PrintSuccess("Liked (%d likes, %d dislikes)", result.LikeCount, result.DislikeCount)
		} else {
			formatter.PrintInfo("Like removed (%d likes, %d dislikes)", result.LikeCount, result.DislikeCount)
		}
		return nil
	},
}

var videoDislikeCmd = &cobra.Command{
	Use:   "dislike <video-id>",
	Short: "Toggle your dislike on a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID := args[0]
		var result *client.ReactionResult
		err := withRateLimitWait(engage.Key{Action: engage.ActionDislike, TargetID: videoID}, func() error {
			var err error
			result, err = apiClient.DislikeVideo(context.Background(), videoID)
			return err
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return formatter.PrintJSON(result)
		}
		if result.Disliked {
			formatter.PrintSuccess("Disliked (%d likes, %d dislikes)", result.LikeCount, result.DislikeCount)
		} else {
			formatter.PrintInfo("Dislike removed (%d likes, %d dislikes)", result.LikeCount, result.DislikeCount)
		}
		return nil
	},
}

var videoStarCmd = &cobra.Command{
	Use:   "star <video-id>",
	Short: "Toggle your star on a video",
	Long: `Toggle your star on a video. Starring requires having watched at
least 20% of the video; pass the watched seconds with --watched.
Un-starring has no watch requirement.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID := args[0]
		var result *client.StarResult
		err := withRateLimitWait(engage.Key{Action: engage.ActionStar, TargetID: videoID}, func() error {
			var err error
			result, err = apiClient.StarVideo(context.Background(), videoID, watchedSeconds)
			return err
		})
		if err != nil {
			if client.IsPreconditionFailed(err) {
				formatter.PrintWarning("%v", err)
				return nil
			}
			return err
		}

		if jsonOutput {
			return formatter.PrintJSON(result)
		}
		if result.Starred {
			formatter.PrintSuccess("Starred (%d stars)", result.StarCount)
		} else {
			formatter.PrintInfo("Star removed (%d stars)", result.StarCount)
		}
		return nil
	},
}

var videoMetadataCmd = &cobra.Command{
	Use:   "metadata <video-id>",
	Short: "Report the player-observed duration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if videoDuration <= 0 {
			return fmt.Errorf("--duration must be a positive number of seconds")
		}
		if err := apiClient.PatchMetadata(context.Background(), args[0], videoDuration); err != nil {
			return err
		}
		formatter.PrintSuccess("Duration set to %.1fs", videoDuration)
		return nil
	},
}

// withRateLimitWait runs attempt once, and when the server answers 429 with
// --wait set, hands the retry to an interaction queue that waits out the
// cooldown on the same fixed delays the app client uses.
func withRateLimitWait(key engage.Key, attempt func() error) error {
	err := attempt()
	if err == nil {
		return nil
	}
	retryAfter, limited := client.IsRateLimited(err)
	if !limited || !waitForRetry {
		return err
	}

	clilog.Debug("Rate limited, waiting it out", "action", string(key.Action), "target", key.TargetID, "retry_after_ms", retryAfter)
	formatter.PrintInfo("Rate limited, retrying...")

	queue := engage.NewQueue(engage.QueueOptions{})
	defer queue.ClearAll()

	done := make(chan error, 1)
	queue.QueueForRetry(key, attempt,
		func() { done <- nil },
		func(terminalErr error) { done <- terminalErr },
	)
	return <-done
}

func init() {
	videoStarCmd.Flags().IntVar(&watchedSeconds, "watched", 0, "Distinct seconds of the video you have watched")
	videoMetadataCmd.Flags().Float64Var(&videoDuration, "duration", 0, "Video duration in seconds")
	videoCmd.PersistentFlags().BoolVar(&waitForRetry, "wait", false, "Wait out server rate limits instead of failing")

	videoCmd.AddCommand(videoShowCmd)
	videoCmd.AddCommand(videoLikeCmd)
	videoCmd.AddCommand(videoDislikeCmd)
	videoCmd.AddCommand(videoStarCmd)
	videoCmd.AddCommand(videoMetadataCmd)
}
