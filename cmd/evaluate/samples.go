package main

import "github.com/abhimana06/llmapp04/internal/eval"

// inputs are realistic texts of varying tone and length. Every input is run
// through every selected analysis type.
var inputs = []struct {
	Name string
	Text string
}{
	{
		Name: "support-question",
		Text: "Hi, I was charged twice for my subscription this month. Can you refund the duplicate payment? My account email is the same one I'm writing from.",
	},
	{
		Name: "product-review",
		Text: "I've been using these headphones for three weeks. The noise cancelling is excellent and the battery easily lasts a full work week, but the ear cups get uncomfortable after a couple of hours and the app crashes whenever I try to change the EQ.",
	},
	{
		Name: "incident-update",
		Text: `Team,

The checkout service outage this morning lasted 42 minutes. Root cause was an expired TLS certificate on the payments gateway; renewal automation had been disabled during last month's migration and nobody re-enabled it. We have renewed the certificate, re-enabled the job, and added an alert that fires 14 days before expiry. No customer data was affected, but roughly 1,200 orders failed and will need to be retried by the support team.

Postmortem doc will be shared by Friday.`,
	},
	{
		Name: "news-snippet",
		Text: "The city council voted 7-2 on Tuesday to approve a pilot program that will convert three downtown streets into pedestrian-only zones on weekends starting in June. Local business owners are divided: restaurants expect more foot traffic, while some retailers worry customers will have nowhere to park.",
	},
	{
		Name: "angry-complaint",
		Text: "This is the third time my package has been marked delivered when it never arrived. Nobody answers the phone and your chat bot just loops. I want a real person to call me today or I'm cancelling my account.",
	},
}

func buildSamples(types []string) ([]eval.Sample, error) {
	parsed, err := parseTypes(types)
	if err != nil {
		return nil, err
	}
	var samples []eval.Sample
	for _, in := range inputs {
		for _, t := range parsed {
			samples = append(samples, eval.Sample{Name: in.Name, Type: t, Text: in.Text})
		}
	}
	return samples, nil
}
