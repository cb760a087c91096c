package assistant

const periodInstructions = `Now give me the start & end dates for your event. You can use 12-hour formatting or 24-hour formatting.

Here is the format you should follow (Start is first, end is second):
mm/dd/yy hh:mm am/pm mm/dd/yy hh:mm am/pm (12-hour formatting)
Or mm/dd/yy hh:mm mm/dd/yy hh:mm (24-hour formatting)`

const (
	hint12h = "Here is the format you should follow (Start is first, end is second):\nmm/dd/yy hh:mm am/pm mm/dd/yy hh:mm am/pm"
	hint24h = "Here is the format you should follow (Start is first, end is second):\nmm/dd/yy hh:mm mm/dd/yy hh:mm"
)

const priorityPrompt = `How important is this event? Enter a number between 1-5.

5 - Highest priority.
4 - High priority.
3 - Medium priority.
2 - Low priority.
1 - Lowest priority.`
