// Package triage_tools provides MCP tools for email triage.
//
// Triage classifies inbox mail into three decisions (handle now, schedule
// for later, ignore) by applying the user's rule set first and falling
// back to a keyword heuristic. The remaining tools act on those decisions.
//
// # Available Tools
//
// Classification:
//   - triage_inbox: Fetch and classify recent inbox messages
//   - triage_classify: Classify one message by ID or by sender/subject
//
// Actions (write access required except where noted):
//   - triage_archive: Archive one or more messages
//   - triage_archive_threads / triage_unarchive_threads: Archive whole
//     threads, or move them back to the inbox
//   - triage_reply: Reply within an existing thread
//   - triage_forward: Forward a message with an optional note (delegation)
//   - triage_get_unsubscribe_info: Inspect List-Unsubscribe methods (read-only)
//   - triage_unsubscribe: Unsubscribe via an HTTP List-Unsubscribe link
//   - triage_mark_spam / triage_unmark_spam: Move threads to or from spam
//   - triage_materialize_filters: Turn always-ignore rules into Gmail
//     archive filters so ignored mail skips the inbox entirely
//   - triage_list_filters: List the account's filters (read-only)
//   - triage_delete_filter: Delete a filter by ID
//
// All tools support an optional 'account' parameter for multi-account use.
package triage_tools
