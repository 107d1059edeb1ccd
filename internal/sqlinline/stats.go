package sqlinline

const QDashboardCounts = `--sql 6601c3ef-9115-4557-8c0b-603a8f4a1be3
select (select count(*) from volunteer_applications),
       (select count(*) from volunteer_applications where created_at > now() - interval '30 days'),
       (select count(*) from users),
       (select count(*) from donations where created_at > now() - interval '30 days');
`
