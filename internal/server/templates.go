package server

import (
	"html/template"

	"github.com/digkill/adboard/internal/models"
	"github.com/digkill/adboard/internal/service"
)

type adView struct {
	ID          int64
	Title       string
	Description string
	// Photos are data URLs; html/template would neuter them in a src
	// attribute, so they pass through as pre-approved URLs.
	Photo     template.URL
	IsPremium bool
	Permanent bool
}

type moderatePage struct {
	Secret  string
	Pending []adView
	Active  []adView
	Promos  []models.PromoCode
}

func newModeratePage(secret string, listing service.ModerationListing, promos []models.PromoCode) moderatePage {
	page := moderatePage{Secret: secret, Promos: promos}
	for _, ad := range listing.Pending {
		page.Pending = append(page.Pending, newAdView(ad, false))
	}
	for _, ad := range listing.Active {
		page.Active = append(page.Active, newAdView(ad.Ad, ad.Permanent))
	}
	return page
}

func newAdView(ad models.Ad, permanent bool) adView {
	return adView{
		ID:          ad.ID,
		Title:       ad.Title,
		Description: ad.Description,
		Photo:       template.URL(ad.Photo),
		IsPremium:   ad.IsPremium,
		Permanent:   permanent,
	}
}

const moderateTemplate = `<!DOCTYPE html>
<html>
<head>
<title>Ad moderation</title>
<style>
    body { font-family: Arial, sans-serif; margin: 20px; background-color: #f0f2f5; color: #333; }
    h1, h2 { text-align: center; color: #28a745; }
    ul { list-style: none; padding: 0; max-width: 800px; margin: 0 auto; }
    li { border: 1px solid #ccc; padding: 15px; margin-bottom: 15px; border-radius: 5px; background: white; }
    img { max-width: 200px; border-radius: 5px; }
    a { margin-right: 10px; color: #007BFF; text-decoration: none; font-weight: bold; }
    .approve { color: #28a745; }
    .reject, .delete { color: #dc3545; }
    .premium { color: gold; font-weight: bold; }
    .empty { text-align: center; }
</style>
</head>
<body>
<h1>Pending ads</h1>
<ul>
{{if not .Pending}}<li class="empty">Nothing waiting for review</li>{{end}}
{{range .Pending}}
    <li>
        <strong>{{.Title}}</strong><br>
        {{if .Photo}}<img src="{{.Photo}}"><br>{{end}}
        {{.Description}}<br>
        <span class="premium">Premium: {{if .IsPremium}}yes{{else}}no{{end}}</span><br>
        <a href="/approve/{{.ID}}?secret={{$.Secret}}" class="approve">Approve</a> |
        <a href="/reject/{{.ID}}?secret={{$.Secret}}" class="reject">Reject</a>
    </li>
{{end}}
</ul>
<h2>Live ads</h2>
<ul>
{{if not .Active}}<li class="empty">Nothing on the board</li>{{end}}
{{range .Active}}
    <li>
        <strong>{{.Title}}</strong>{{if .Permanent}} &#9733;{{end}}<br>
        {{if .Photo}}<img src="{{.Photo}}"><br>{{end}}
        {{.Description}}<br>
        <span class="premium">Premium: {{if .IsPremium}}yes{{else}}no{{end}}</span><br>
        {{if .Permanent}}
        <a href="/remove-permanent/{{.ID}}?secret={{$.Secret}}">Remove permanent</a> |
        {{else}}
        <a href="/make-permanent/{{.ID}}?secret={{$.Secret}}">Make permanent</a> |
        {{end}}
        <a href="/delete-ad/{{.ID}}?secret={{$.Secret}}" class="delete">Delete</a>
    </li>
{{end}}
</ul>
<h2>Promo codes</h2>
<ul>
{{if not .Promos}}<li class="empty">No codes issued — <a href="/generate-promo?secret={{.Secret}}">generate one</a></li>{{end}}
{{range .Promos}}
    <li><code>{{.Code}}</code> — {{if .Used}}used{{else}}unused{{end}}</li>
{{end}}
</ul>
</body>
</html>
`
