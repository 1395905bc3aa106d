// Package pages holds the server-rendered pages of the web UI.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Chat renders the single-page chat UI. The page is self-contained; all
// interaction goes through the JSON API.
func Chat() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, chatPageHTML)
		return err
	})
}

const chatPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Agent Memory Chat</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; background: #f4f5f7; color: #1f2430; }
  header { background: #2b3245; color: #fff; padding: 12px 20px; display: flex; justify-content: space-between; align-items: center; }
  header h1 { font-size: 18px; margin: 0; }
  main { max-width: 760px; margin: 0 auto; padding: 20px; }
  #chat-log { display: flex; flex-direction: column; gap: 12px; min-height: 300px; }
  .bubble { padding: 10px 14px; border-radius: 10px; max-width: 85%; line-height: 1.45; }
  .bubble.user { background: #2b6cb0; color: #fff; align-self: flex-end; }
  .bubble.assistant { background: #fff; border: 1px solid #d9dce3; align-self: flex-start; }
  .bubble.error { background: #fde8e8; border: 1px solid #e8b4b4; align-self: flex-start; }
  .bubble details { margin-top: 8px; font-size: 13px; color: #5a6172; }
  .bubble details ul { margin: 6px 0 0; padding-left: 18px; }
  #composer { display: flex; gap: 8px; margin-top: 16px; }
  #message-input { flex: 1; padding: 10px; border: 1px solid #c6cad3; border-radius: 8px; font-size: 15px; }
  button { background: #2b6cb0; color: #fff; border: none; border-radius: 8px; padding: 10px 16px; font-size: 15px; cursor: pointer; }
  button:disabled { background: #9fb3c8; cursor: wait; }
  #import-form { font-size: 13px; color: #cbd2e1; display: flex; gap: 8px; align-items: center; }
  #import-form button { font-size: 13px; padding: 6px 10px; }
  #import-status { font-size: 13px; }
</style>
</head>
<body>
<header>
  <h1>Agent Memory Chat</h1>
  <form id="import-form">
    <input type="file" id="import-file" accept=".pdf,.txt,.md">
    <button type="submit">Import document</button>
    <span id="import-status"></span>
  </form>
</header>
<main>
  <div id="chat-log"></div>
  <div id="composer">
    <input id="message-input" type="text" placeholder="Ask me anything..." autocomplete="off" autofocus>
    <button id="send-button" type="button">Send</button>
  </div>
</main>
<script>
(function () {
  var log = document.getElementById('chat-log');
  var input = document.getElementById('message-input');
  var sendButton = document.getElementById('send-button');
  var importForm = document.getElementById('import-form');
  var importFile = document.getElementById('import-file');
  var importStatus = document.getElementById('import-status');

  function escapeHTML(text) {
    var div = document.createElement('div');
    div.appendChild(document.createTextNode(text));
    return div.innerHTML;
  }

  function appendBubble(kind, html, memories) {
    var bubble = document.createElement('div');
    bubble.className = 'bubble ' + kind;
    bubble.innerHTML = html;

    if (memories && memories.length > 0) {
      var details = document.createElement('details');
      var summary = document.createElement('summary');
      summary.textContent = memories.length + ' memories used';
      details.appendChild(summary);
      var list = document.createElement('ul');
      for (var i = 0; i < memories.length; i++) {
        var item = document.createElement('li');
        item.textContent = memories[i];
        list.appendChild(item);
      }
      details.appendChild(list);
      bubble.appendChild(details);
    }

    log.appendChild(bubble);
    bubble.scrollIntoView({ behavior: 'smooth', block: 'end' });
  }

  function sendMessage() {
    var text = input.value.trim();
    if (!text) {
      return;
    }

    appendBubble('user', escapeHTML(text));
    input.value = '';
    sendButton.disabled = true;

    fetch('/chat', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify({ message: text })
    }).then(function (res) {
      return res.json().then(function (data) { return { ok: res.ok, data: data }; });
    }).then(function (result) {
      if (!result.ok) {
        appendBubble('error', escapeHTML(result.data.error || 'Request failed'));
        return;
      }
      appendBubble('assistant', result.data.response_html, result.data.memories_used);
    }).catch(function () {
      appendBubble('error', 'Could not reach the server.');
    }).then(function () {
      sendButton.disabled = false;
      input.focus();
    });
  }

  sendButton.addEventListener('click', sendMessage);
  input.addEventListener('keydown', function (event) {
    if (event.key === 'Enter') {
      sendMessage();
    }
  });

  importForm.addEventListener('submit', function (event) {
    event.preventDefault();
    if (!importFile.files || importFile.files.length === 0) {
      importStatus.textContent = 'Pick a file first.';
      return;
    }

    var formData = new FormData();
    formData.append('file', importFile.files[0]);
    importStatus.textContent = 'Importing...';

    fetch('/memories/import', { method: 'POST', body: formData }).then(function (res) {
      return res.json().then(function (data) { return { ok: res.ok, data: data }; });
    }).then(function (result) {
      if (!result.ok) {
        importStatus.textContent = result.data.error || 'Import failed';
        return;
      }
      importStatus.textContent = 'Stored ' + result.data.imported + ' memories from ' + result.data.title;
      importFile.value = '';
    }).catch(function () {
      importStatus.textContent = 'Could not reach the server.';
    });
  });
})();
</script>
</body>
</html>
`
