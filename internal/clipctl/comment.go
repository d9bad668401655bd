package clipctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/clipstream/clipstream/pkg/client"
	"github.com/clipstream/clipstream/pkg/commenttree"
	"github.com/clipstream/clipstream/pkg/engage"
	"github.com/clipstream/clipstream/pkg/formatter"
	"github.com/spf13/cobra"
)

var (
	commentSort     string
	commentPage     int
	commentPageSize int
	commentSearch   string
	flatOutput      bool
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Comments: list, add, reply, delete, like, dislike",
}

var commentListCmd = &cobra.Command{
	Use:   "list <video-id>",
	Short: "List comments on a video as a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := apiClient.GetComments(context.Background(), args[0], client.CommentListOptions{
			Sort:     commentSort,
			Page:     commentPage,
			PageSize: commentPageSize,
			Search:   commentSearch,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return formatter.PrintJSON(page)
		}

		if len(page.Comments) == 0 {
			formatter.PrintInfo("No comments")
			return nil
		}

		liked := make(map[string]bool, len(page.UserEngagement.LikedComments))
		for _, id := range page.UserEngagement.LikedComments {
			liked[id] = true
		}

		if flatOutput {
			for _, comment := range page.Comments {
				printComment(comment, 0, liked[comment.ID])
			}
		} else {
			for _, root := range commenttree.Build(page.Comments) {
				printComment(root.Comment, 0, liked[root.Comment.ID])
				for _, child := range root.Children {
					printComment(child.Comment, 1, liked[child.Comment.ID])
				}
			}
		}

		formatter.PrintInfo("page %d/%d (%d total)",
			page.Pagination.Page, page.Pagination.TotalPages, page.Pagination.Total)
		return nil
	},
}

func printComment(comment client.Comment, depth int, likedByViewer bool) {
	indent := strings.Repeat("  ", depth)
	author := comment.User.Username
	if author == "" {
		author = comment.UserID
	}

	marker := ""
	if likedByViewer {
		marker = " ♥"
	}

	formatter.Bold.Printf("%s%s", indent, author)
	fmt.Printf("  (%d likes%s)\n", comment.LikeCount, marker)
	fmt.Printf("%s%s\n", indent, comment.Message)
}

var commentAddCmd = &cobra.Command{
	Use:   "add <video-id> <message>",
	Short: "Post a top-level comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		comment, err := apiClient.CreateComment(context.Background(), args[0], args[1])
		if err != nil {
			if retryAfter, limited := client.IsRateLimited(err); limited {
				formatter.PrintWarning("Slow down: try again in %.1fs", float64(retryAfter)/1000)
				return nil
			}
			return err
		}
		formatter.PrintSuccess("Comment posted (%s)", comment.ID)
		return nil
	},
}

var commentReplyCmd = &cobra.Command{
	Use:   "reply <video-id> <comment-id> <message>",
	Short: "Reply to a comment",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		reply, err := apiClient.Reply(context.Background(), args[0], args[1], args[2])
		if err != nil {
			if retryAfter, limited := client.IsRateLimited(err); limited {
				formatter.PrintWarning("Slow down: try again in %.1fs", float64(retryAfter)/1000)
				return nil
			}
			return err
		}
		formatter.PrintSuccess("Reply posted (%s)", reply.ID)
		return nil
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete <video-id> <comment-id>",
	Short: "Delete your own comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiClient.DeleteComment(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		formatter.PrintSuccess("Comment deleted")
		return nil
	},
}

var commentLikeCmd = &cobra.Command{
	Use:   "like <video-id> <comment-id>",
	Short: "Toggle your like on a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID, commentID := args[0], args[1]
		var result *client.CommentReactionResult
		err := withRateLimitWait(engage.Key{Action: engage.ActionCommentLike, TargetID: commentID}, func() error {
			var err error
			result, err = apiClient.LikeComment(context.Background(), videoID, commentID)
			return err
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return formatter.PrintJSON(result)
		}
		if result.Liked {
			formatter.PrintSuccess("Comment liked (%d likes)", result.LikeCount)
		} else {
			formatter.PrintInfo("Comment like removed (%d likes)", result.LikeCount)
		}
		return nil
	},
}

var commentDislikeCmd = &cobra.Command{
	Use:   "dislike <video-id> <comment-id>",
	Short: "Toggle your dislike on a comment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID, commentID := args[0], args[1]
		var result *client.CommentReactionResult
		err := withRateLimitWait(engage.Key{Action: engage.ActionCommentDislike, TargetID: commentID}, func() error {
			var err error
			result, err = apiClient.DislikeComment(context.Background(), videoID, commentID)
			return err
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return formatter.PrintJSON(result)
		}
		if result.Disliked {
			formatter.PrintSuccess("Comment disliked (%d dislikes)", result.DislikeCount)
		} else {
			formatter.PrintInfo("Comment dislike removed (%d dislikes)", result.DislikeCount)
		}
		return nil
	},
}

func init() {
	commentListCmd.Flags().StringVar(&commentSort, "sort", "newest", "Sort order: newest, oldest, top")
	commentListCmd.Flags().IntVar(&commentPage, "page", 1, "Page number")
	commentListCmd.Flags().IntVar(&commentPageSize, "page-size", 20, "Comments per page")
	commentListCmd.Flags().StringVar(&commentSearch, "search", "", "Filter comments by text")
	commentListCmd.Flags().BoolVar(&flatOutput, "flat", false, "Print the page flat instead of threaded")
	commentCmd.PersistentFlags().BoolVar(&waitForRetry, "wait", false, "Wait out server rate limits instead of failing")

	commentCmd.AddCommand(commentListCmd)
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentReplyCmd)
	commentCmd.AddCommand(commentDeleteCmd)
	commentCmd.AddCommand(commentLikeCmd)
	commentCmd.AddCommand(commentDislikeCmd)
}
