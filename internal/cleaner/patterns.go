package cleaner

import (
	"regexp"

	"github.com/mrjoshuak/gravigo/internal/dom"
)

// Boilerplate id, class and name values. Matched case-insensitively anywhere
// in the attribute value.
var RegexpBoilerplate = regexp.MustCompile(`(?i)` +
	`^side$|combx|retweet|mediaarticlerelated|menucontainer|navbar` +
	`|comment|PopularQuestions|contact|foot|footer|Footer|footnote` +
	`|cnn_strycaptiontxt|links|meta$|scroll|shoutbox|sponsor` +
	`|tags|socialnetworking|socialNetworking|cnnStryHghLght` +
	`|cnn_stryspcvbx|^inset$|pagetools|post-attributes` +
	`|welcome_form|contentTools2|the_answers` +
	`|communitypromo|runaroundLeft|subscribe|vcard|articleheadings` +
	`|date|^print$|popup|author-dropdown|tools|socialtools|byline` +
	`|konafilter|KonaFilter|breadcrumbs|^fn$|wp-caption-text` +
	`|source|legende|ajoutVideo|timestamp`)

// Extra patterns applied to id and then class, one after another.
var (
	RegexpCaption              = regexp.MustCompile(`(?i)^caption$`)
	RegexpGoogle               = regexp.MustCompile(`(?i) google `)
	RegexpEntries              = regexp.MustCompile(`(?i)^[^entry-]more.*$`)
	RegexpFacebook             = regexp.MustCompile(`(?i)[^-]facebook`)
	RegexpFacebookBroadcasting = regexp.MustCompile(`(?i)facebook-broadcasting`)
	RegexpTwitter              = regexp.MustCompile(`(?i)[^-]twitter`)
)

var extraPatterns = []*regexp.Regexp{
	RegexpCaption,
	RegexpGoogle,
	RegexpEntries,
	RegexpFacebook,
	RegexpFacebookBroadcasting,
	RegexpTwitter,
}

// Attributes checked against RegexpBoilerplate, in order.
var boilerplateAttrs = []string{"id", "class", "name"}

// Tags that keep a div or span from being turned into a paragraph.
var blockTags = []string{"a", "blockquote", "dl", "div", "img", "ol", "p", "pre", "table", "ul"}

var dropCapSelector = dom.MustCompile("span[class~=dropcap], span[class~=drop_cap]")

var paraSpanSelector = dom.MustCompile("p span")
